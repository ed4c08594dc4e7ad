package srv

import (
	"log/slog"
	"net/http"

	"github.com/swaggo/swag"
	"github.com/webframp/docstracker/docs"
)

//	@title			docstracker API
//	@version		1.0
//	@description	Recent documentation changes with AI summaries.
//	@BasePath		/

// HandleAPISpec serves the OpenAPI document registered by the docs package.
func (s *Server) HandleAPISpec(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		slog.Error("read openapi document", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
