package transport

import (
	"net/http"
	"os"
	"path"

	"github.com/gorilla/mux"

	"github.com/raywall/livros-api/docstore"
	"github.com/raywall/livros-api/pkg/metrics"
	"github.com/raywall/livros-api/pkg/resource"
	"github.com/raywall/livros-api/pkg/responder"
	"github.com/raywall/livros-api/pkg/validation"
)

const (
	InfoMessage    = "API de Livros - 100% funcional!📚👏"
	PrefixLivros   = "/api/livros"
	PrefixUsuarios = "/api/usuarios"
)

// RouterOptions reúne o que a composição precisa além do banco
type RouterOptions struct {
	Version   string
	StaticDir string
	Metrics   metrics.Provider
}

// NewRouter monta a API completa: info, os dois recursos, arquivos estáticos
// e o 404 final, envolvidos pela cadeia de middlewares.
func NewRouter(backend docstore.Backend, opts RouterOptions) http.Handler {
	// variáveis de rota chegam escapadas; "a%2Fb" continua um único segmento
	r := mux.NewRouter().UseEncodedPath()
	v := validation.New()

	info := infoHandler(opts.Version)
	r.HandleFunc("/api", info).Methods(http.MethodGet)
	r.HandleFunc("/api/", info).Methods(http.MethodGet)

	livros := resource.Livros()
	resource.NewController(livros, backend.Collection(livros.Collection), v).Mount(r, PrefixLivros)

	usuarios := resource.Usuarios()
	resource.NewController(usuarios, backend.Collection(usuarios.Collection), v).Mount(r, PrefixUsuarios)

	if opts.StaticDir != "" {
		r.PathPrefix("/").Handler(staticHandler(opts.StaticDir)).Methods(http.MethodGet, http.MethodHead)
	}

	// método não suportado também é rota inexistente
	notFound := http.HandlerFunc(responder.RouteNotFound)
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound

	return Chain(r, opts.Metrics)
}

func infoHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responder.JSON(w, http.StatusOK, map[string]string{
			"message": InfoMessage,
			"version": version,
		})
	}
}

// staticHandler serve arquivos do diretório; ausência do arquivo cai no 404 da API
func staticHandler(dir string) http.Handler {
	root := http.Dir(dir)
	files := http.FileServer(root)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if !exists(root, name) {
			responder.RouteNotFound(w, r)
			return
		}
		if name == "/favicon.ico" {
			w.Header().Set("Cache-Control", "public, max-age=31536000")
		}
		files.ServeHTTP(w, r)
	})
}

func exists(root http.FileSystem, name string) bool {
	f, err := root.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return false
	}
	if !st.IsDir() {
		return true
	}
	idx, err := root.Open(path.Join(name, "index.html"))
	if err != nil {
		return false
	}
	idx.Close()
	return true
}

// StaticDirExists indica se o diretório de estáticos pode ser servido
func StaticDirExists(dir string) bool {
	st, err := os.Stat(dir)
	return err == nil && st.IsDir()
}
