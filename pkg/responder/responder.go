package responder

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ErrorItem é uma entrada do envelope de erro
type ErrorItem struct {
	Value any    `json:"value"`
	Msg   string `json:"msg"`
	Param string `json:"param"`
}

// Envelope é o formato único de erro da API: {"errors": [{value, msg, param}]}
type Envelope struct {
	Errors []ErrorItem `json:"errors"`
}

// JSON serializa o corpo com o status informado
func JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Int("status", status).Msg("erro ao serializar resposta")
	}
}

// Errors responde com o envelope de erro
func Errors(w http.ResponseWriter, status int, items ...ErrorItem) {
	if items == nil {
		items = []ErrorItem{}
	}
	JSON(w, status, Envelope{Errors: items})
}

// Failure responde a uma falha de operação; o valor carrega a mensagem do erro
func Failure(w http.ResponseWriter, status int, err error, msg, param string) {
	var value any
	if err != nil {
		value = err.Error()
	}
	Errors(w, status, ErrorItem{Value: value, Msg: msg, Param: param})
}

// RouteNotFound responde 404 referenciando a URL original da requisição
func RouteNotFound(w http.ResponseWriter, r *http.Request) {
	url := r.URL.RequestURI()
	Errors(w, http.StatusNotFound, ErrorItem{
		Value: url,
		Msg:   fmt.Sprintf("A rota %s não existe nesta API 🚫", url),
		Param: "routes",
	})
}
