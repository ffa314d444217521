package validation

import "github.com/BerylCAtieno/ezdocs-api/internal/models"

// Named schemas bound by the router.
var (
	IDParams     = JSON[models.IDParams]("idParams")
	AuthorParams = JSON[models.AuthorParams]("authorParams")

	Pagination = Query("pagination", models.Pagination{
		Page:  models.DefaultPage,
		Limit: models.DefaultLimit,
	})
	PersonQuery = Query("personQuery", models.PersonQuery{
		Page:  models.DefaultPage,
		Limit: models.DefaultLimit,
	})

	CreateDocument = JSON[models.CreateDocumentRequest]("createDocument")
	UpdateDocument = JSON[models.UpdateDocumentRequest]("updateDocument")

	CreatePerson = JSON[models.CreatePersonRequest]("createPerson")
	UpdatePerson = JSON[models.UpdatePersonRequest]("updatePerson")

	CreateAuthor = JSON[models.CreateAuthorRequest]("createAuthor")
)
