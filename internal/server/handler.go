package server

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
)

// graphqlRequest is the standard POST body shape.
type graphqlRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// handleGraphQL executes one request against the current schema.
func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": []map[string]string{{"message": "invalid request body: " + err.Error()}},
		})
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": []map[string]string{{"message": "query is required"}},
		})
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         *s.holder.Schema(),
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	if result.HasErrors() {
		s.logger.Debug("graphql request returned errors", "errors", len(result.Errors))
	}
	writeJSON(w, http.StatusOK, result)
}

// handleHealth reports liveness plus the size of the active query surface.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	schema := s.holder.Schema()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"operations": len(schema.QueryType().Fields()),
	})
}

// handlePlayground serves an interactive query console backed by POST
// /graphql on the same origin.
func (s *Server) handlePlayground(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(playgroundHTML))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

const playgroundHTML = `<!DOCTYPE html>
<html>
<head>
  <title>TableGraph</title>
  <style>body { margin: 0; } #graphiql { height: 100vh; }</style>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css" />
</head>
<body>
  <div id="graphiql">Loading...</div>
  <script src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
  <script>
    const fetcher = GraphiQL.createFetcher({ url: '/graphql' });
    ReactDOM.createRoot(document.getElementById('graphiql')).render(
      React.createElement(GraphiQL, { fetcher: fetcher })
    );
  </script>
</body>
</html>
`
