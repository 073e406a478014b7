package controllers

import (
	"net/http"

	"github.com/lintang-b-s/osm-import/pkg"
	helper "github.com/lintang-b-s/osm-import/pkg/http/http-router/router-helper"
	"github.com/lintang-b-s/osm-import/pkg/index"
	"github.com/lintang-b-s/osm-import/pkg/kvdb"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type indexAPI struct {
	indexService IndexService
	log          *zap.Logger
	validate     *validator.Validate
	trans        ut.Translator
}

func New(indexService IndexService, log *zap.Logger) *indexAPI {
	validate := validator.New()
	_ = validate.RegisterValidation("dataset", func(fl validator.FieldLevel) bool {
		return index.ValidDataset(fl.Field().String())
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	_ = validate.RegisterTranslation("dataset", trans, func(ut ut.Translator) error {
		return ut.Add("dataset", "{0} may only contain letters, digits, '_' and '-'", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("dataset", fe.Field())
		return t
	})

	return &indexAPI{
		indexService: indexService,
		log:          log,
		validate:     validate,
		trans:        trans,
	}
}

func (api *indexAPI) Routes(group *helper.RouteGroup) {
	group.GET("/indices", api.indices)

	datasets := group.Group("/datasets/:dataset")
	datasets.GET("/indices", api.datasetIndices)
	datasets.GET("/documents/:id", api.document)
}

// indicesResponse model info
//
//	@Description	response body of the index listings.
type indicesResponse struct {
	Data []kvdb.IndexMeta `json:"data"`
}

// documentResponse model info
//
//	@Description	response body holding one indexed street or address document.
type documentResponse struct {
	Data map[string]any `json:"data"` // the document as it was indexed.
}

// indices godoc
// @Summary		list the published index of every dataset.
// @Description	list the published index of every dataset.
// @Tags			indices
// @ID indices
// @Produce		application/json
// @Router			/api/indices [get]
// @Success		200	{object}	indicesResponse
// @Failure		500	{object}	errorResponse
func (api *indexAPI) indices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metas, err := api.indexService.PublishedIndices(r.Context())
	if err != nil {
		api.codeErrorResponse(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": metas}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

type datasetRequest struct {
	Dataset string `validate:"required,max=64,dataset"`
}

// datasetIndices godoc
// @Summary		list every index of a dataset, published or not.
// @Description	list every index of a dataset, published or not. Indices left behind by failed imports are listed too.
// @Tags			indices
// @ID datasetIndices
// @Param			dataset	path	string	true	"dataset name"
// @Produce		application/json
// @Router			/api/datasets/{dataset}/indices [get]
// @Success		200	{object}	indicesResponse
// @Failure		400	{object}	errorResponse
// @Failure		404	{object}	errorResponse
// @Failure		500	{object}	errorResponse
func (api *indexAPI) datasetIndices(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request := datasetRequest{Dataset: p.ByName("dataset")}
	if err := api.validateRequest(request); err != nil {
		api.codeErrorResponse(w, r, err)
		return
	}

	metas, err := api.indexService.DatasetIndices(r.Context(), request.Dataset)
	if err != nil {
		api.codeErrorResponse(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": metas}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

type documentRequest struct {
	Dataset string `validate:"required,max=64,dataset"`
	ID      string `validate:"required,max=256,printascii"`
}

// document godoc
// @Summary		get one document of the published index of a dataset.
// @Description	get one document of the published index of a dataset, by document id.
// @Tags			documents
// @ID document
// @Param			dataset	path	string	true	"dataset name"
// @Param			id		path	string	true	"document id"
// @Produce		application/json
// @Router			/api/datasets/{dataset}/documents/{id} [get]
// @Success		200	{object}	documentResponse
// @Failure		400	{object}	errorResponse
// @Failure		404	{object}	errorResponse
// @Failure		500	{object}	errorResponse
func (api *indexAPI) document(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request := documentRequest{
		Dataset: p.ByName("dataset"),
		ID:      p.ByName("id"),
	}
	if err := api.validateRequest(request); err != nil {
		api.codeErrorResponse(w, r, err)
		return
	}

	doc, err := api.indexService.Document(r.Context(), request.Dataset, request.ID)
	if err != nil {
		api.codeErrorResponse(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": doc}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *indexAPI) validateRequest(request any) error {
	if err := api.validate.Struct(request); err != nil {
		vv := translateError(err, api.trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		return pkg.WrapErrorf(nil, pkg.ErrBadParamInput, "validation error: %v", vvString)
	}
	return nil
}
