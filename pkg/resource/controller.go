package resource

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/raywall/livros-api/docstore"
	"github.com/raywall/livros-api/pkg/responder"
	"github.com/raywall/livros-api/pkg/validation"
)

// Controller traduz verbo + rota + corpo em uma única operação do Store.
// Não guarda estado entre requisições.
type Controller struct {
	def       Definition
	store     docstore.Store
	validator *validation.Validator
}

// NewController cria o controller; o Store é compartilhado entre requisições
func NewController(def Definition, store docstore.Store, v *validation.Validator) *Controller {
	if v == nil {
		v = validation.New()
	}
	return &Controller{def: def, store: store, validator: v}
}

// Mount registra as rotas do recurso sob o prefixo (ex: /api/livros)
func (c *Controller) Mount(r *mux.Router, prefix string) {
	for _, root := range []string{prefix, prefix + "/"} {
		r.HandleFunc(root, c.List).Methods(http.MethodGet)
		r.HandleFunc(root, c.Create).Methods(http.MethodPost)
		r.HandleFunc(root, c.Update).Methods(http.MethodPut)
	}
	r.HandleFunc(prefix+"/id/{id}", c.GetByID).Methods(http.MethodGet)
	r.HandleFunc(prefix+"/razao/{razao}", c.Search).Methods(http.MethodGet)
	r.HandleFunc(prefix+"/{id}", c.Delete).Methods(http.MethodDelete)
}

// List — GET {prefix}
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	docs, err := c.store.Find().
		SortAsc(c.def.SortField).
		Exclude(c.def.Hidden...).
		Exec(r.Context())
	if err != nil {
		c.logFailure(r.Context(), "list", err)
		responder.Failure(w, http.StatusInternalServerError, err, "Erro ao obter a listagem de "+c.def.Label, "/")
		return
	}
	responder.JSON(w, http.StatusOK, docs)
}

// GetByID — GET {prefix}/id/{id}; sempre devolve uma lista
func (c *Controller) GetByID(w http.ResponseWriter, r *http.Request) {
	raw := pathVar(r, "id")
	id, err := docstore.ParseID(raw)
	if err != nil {
		invalidID(w, raw, "id")
		return
	}

	docs, err := c.store.Find().ByID(id).Exclude(c.def.Hidden...).Exec(r.Context())
	if err != nil {
		c.logFailure(r.Context(), "get", err)
		responder.Failure(w, http.StatusBadRequest, err, "Erro ao obter o documento de "+c.def.Label, "/id/"+raw)
		return
	}
	responder.JSON(w, http.StatusOK, docs)
}

// Search — GET {prefix}/razao/{razao}
func (c *Controller) Search(w http.ResponseWriter, r *http.Request) {
	term := pathVar(r, "razao")

	docs, err := c.store.Find().
		Contains(c.def.SearchField, term).
		Exclude(c.def.Hidden...).
		Exec(r.Context())
	if err != nil {
		c.logFailure(r.Context(), "search", err)
		responder.Failure(w, http.StatusBadRequest, err, "Erro ao pesquisar "+c.def.Label, "/razao/"+term)
		return
	}
	responder.JSON(w, http.StatusOK, docs)
}

// Create — POST {prefix}
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDocument(w, r)
	if err != nil {
		invalidBody(w, err)
		return
	}
	delete(doc, docstore.IDField)

	if errs := c.validator.Validate(r.Context(), doc, c.def.Rules); len(errs) > 0 {
		responder.Errors(w, http.StatusBadRequest, toItems(errs)...)
		return
	}

	res, err := c.store.InsertOne(r.Context(), doc)
	if err != nil {
		c.logFailure(r.Context(), "insert", err)
		responder.Failure(w, http.StatusBadRequest, err, "Erro ao incluir em "+c.def.Label, "/")
		return
	}
	responder.JSON(w, http.StatusCreated, res)
}

// Update — PUT {prefix}; o corpo traz o _id e os campos a alterar
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDocument(w, r)
	if err != nil {
		invalidBody(w, err)
		return
	}
	rawID := doc[docstore.IDField]
	delete(doc, docstore.IDField)

	if errs := c.validator.Validate(r.Context(), doc, c.def.Rules); len(errs) > 0 {
		responder.Errors(w, http.StatusForbidden, toItems(errs)...)
		return
	}

	hex, _ := rawID.(string)
	id, err := docstore.ParseID(hex)
	if err != nil {
		invalidID(w, rawID, docstore.IDField)
		return
	}

	res, err := c.store.UpdateOne(r.Context(), id, doc)
	if err != nil {
		c.logFailure(r.Context(), "update", err)
		responder.Failure(w, http.StatusBadRequest, err, "Erro ao alterar em "+c.def.Label, "/")
		return
	}
	responder.JSON(w, http.StatusAccepted, res)
}

// Delete — DELETE {prefix}/{id}; id inexistente não é erro
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	raw := pathVar(r, "id")
	id, err := docstore.ParseID(raw)
	if err != nil {
		invalidID(w, raw, "id")
		return
	}

	res, err := c.store.DeleteOne(r.Context(), id)
	if err != nil {
		c.logFailure(r.Context(), "delete", err)
		responder.Failure(w, http.StatusBadRequest, err, "Erro ao excluir em "+c.def.Label, "/"+raw)
		return
	}
	responder.JSON(w, http.StatusAccepted, res)
}

// pathVar devolve a variável de rota sem escape; funciona com ou sem
// UseEncodedPath no router
func pathVar(r *http.Request, name string) string {
	raw := mux.Vars(r)[name]
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func (c *Controller) logFailure(ctx context.Context, op string, err error) {
	log.Ctx(ctx).Error().
		Err(err).
		Str("collection", c.def.Collection).
		Str("operation", op).
		Msg("falha na operação do banco")
}

func invalidID(w http.ResponseWriter, value any, param string) {
	responder.Errors(w, http.StatusBadRequest, responder.ErrorItem{
		Value: value,
		Msg:   "O identificador informado é inválido",
		Param: param,
	})
}

func invalidBody(w http.ResponseWriter, err error) {
	responder.Failure(w, http.StatusBadRequest, err, "O corpo da requisição deve ser um objeto JSON", "body")
}

func toItems(errs []validation.FieldError) []responder.ErrorItem {
	items := make([]responder.ErrorItem, len(errs))
	for i, e := range errs {
		items[i] = responder.ErrorItem{Value: e.Value, Msg: e.Msg, Param: e.Param}
	}
	return items
}
