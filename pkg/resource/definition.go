package resource

import "github.com/raywall/livros-api/pkg/validation"

// HiddenFields nunca saem da API nas leituras
var HiddenFields = []string{"password", "senha"}

// Definition parametriza um Controller sobre uma coleção
type Definition struct {
	// Collection é o nome da coleção no banco
	Collection string
	// Label aparece nas mensagens de erro (ex: "livros")
	Label string
	// Rules é aplicado antes de inclusões e alterações
	Rules validation.RuleSet
	// Hidden lista os campos removidos por projeção
	Hidden []string
	// SortField ordena a listagem completa
	SortField string
	// SearchField é o campo usado na busca aproximada
	SearchField string
}

// Livros descreve a coleção de livros
func Livros() Definition {
	return Definition{
		Collection: "livros",
		Label:      "livros",
		Rules: validation.RuleSet{
			{Param: "name", Tag: "required," + validation.TagText, Msg: "Nome do livro é obrigatório"},
			{Param: "author", Tag: "required," + validation.TagText, Msg: "Nome do(a) autor(a) é obrigatório"},
			{Param: "releaseYear", Tag: "numeric", Msg: "A data de lançamento tem que ser em números"},
		},
		Hidden:      HiddenFields,
		SortField:   "name",
		SearchField: "name",
	}
}

// Usuarios descreve a coleção de usuários; sem contrato de campos
func Usuarios() Definition {
	return Definition{
		Collection:  "usuarios",
		Label:       "usuários",
		Hidden:      HiddenFields,
		SortField:   "name",
		SearchField: "name",
	}
}
