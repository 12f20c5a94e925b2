package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	gqlgen "github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

// Handler serves the schema over HTTP POST. Root fields are resolved in
// document order, one at a time.
type Handler struct {
	resolver *Resolver
	schema   *ast.Schema
}

// NewHandler creates a GraphQL handler for resolver.
func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver, schema: Schema()}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeResponse(w, http.StatusMethodNotAllowed, errorResponse("Method not allowed, use POST"))
		return
	}

	var params gqlgen.RawParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeResponse(w, http.StatusBadRequest, errorResponse("Invalid JSON: "+err.Error()))
		return
	}

	doc, errs := gqlparser.LoadQuery(h.schema, params.Query)
	if len(errs) > 0 {
		writeResponse(w, http.StatusUnprocessableEntity, &gqlgen.Response{Errors: errs})
		return
	}
	op := doc.Operations.ForName(params.OperationName)
	if op == nil {
		writeResponse(w, http.StatusUnprocessableEntity,
			errorResponse(fmt.Sprintf("operation %q not found", params.OperationName)))
		return
	}
	vars, err := validator.VariableValues(h.schema, op, params.Variables)
	if err != nil {
		writeResponse(w, http.StatusUnprocessableEntity, errorResponse(err.Error()))
		return
	}

	opCtx := &gqlgen.OperationContext{
		RawQuery:      params.Query,
		Variables:     vars,
		OperationName: params.OperationName,
		Doc:           doc,
		Operation:     op,
	}
	writeResponse(w, http.StatusOK, h.execute(r.Context(), opCtx))
}

func (h *Handler) execute(ctx context.Context, opCtx *gqlgen.OperationContext) *gqlgen.Response {
	rootType := "Query"
	if opCtx.Operation.Operation == ast.Mutation {
		rootType = "Mutation"
	}

	var (
		data object
		errs gqlerror.List
	)
	for _, f := range gqlgen.CollectFields(opCtx, opCtx.Operation.SelectionSet, []string{rootType}) {
		if f.Name == "__typename" {
			data = append(data, member{f.Alias, rootType})
			continue
		}
		value, err := h.resolveRoot(ctx, rootType, f, opCtx.Variables)
		if err == nil {
			value, err = toValue(value)
		}
		if err != nil {
			errs = append(errs, &gqlerror.Error{
				Err:        err,
				Message:    err.Error(),
				Path:       ast.Path{ast.PathName(f.Alias)},
				Extensions: map[string]any{"code": errorCode(err)},
			})
			continue
		}
		data = append(data, member{f.Alias, project(opCtx, f.Selections, f.Definition.Type.Name(), value)})
	}

	// Every root field is non-null, so one failure nulls the whole result.
	if len(errs) > 0 {
		return &gqlgen.Response{Errors: errs}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return errorResponse(err.Error())
	}
	return &gqlgen.Response{Data: raw}
}

func (h *Handler) resolveRoot(ctx context.Context, rootType string, f gqlgen.CollectedField, vars map[string]any) (any, error) {
	if rootType == "Mutation" {
		switch f.Name {
		case "run":
			return h.resolver.Mutation().Run(ctx)
		}
		return nil, fmt.Errorf("unsupported mutation field %q", f.Name)
	}

	q := h.resolver.Query()
	switch f.Name {
	case "health":
		return q.Health(ctx)
	case "status":
		return q.Status(ctx)
	case "carriers":
		return q.Carriers(ctx)
	case "carrier":
		code, _ := f.ArgumentMap(vars)["code"].(string)
		return q.Carrier(ctx, code)
	}
	return nil, fmt.Errorf("unsupported query field %q", f.Name)
}

// toValue turns a resolver result into plain maps, slices and scalars keyed
// by schema field name.
func toValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// project keeps the selected fields of value, in selection order and under
// their aliases.
func project(opCtx *gqlgen.OperationContext, sel ast.SelectionSet, typeName string, value any) any {
	switch v := value.(type) {
	case map[string]any:
		var out object
		for _, f := range gqlgen.CollectFields(opCtx, sel, []string{typeName}) {
			if f.Name == "__typename" {
				out = append(out, member{f.Alias, typeName})
				continue
			}
			out = append(out, member{f.Alias, project(opCtx, f.Selections, f.Definition.Type.Name(), v[f.Name])})
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = project(opCtx, sel, typeName, item)
		}
		return out
	default:
		return v
	}
}

type member struct {
	key   string
	value any
}

// object is a JSON object that keeps its key order.
type object []member

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func errorResponse(message string) *gqlgen.Response {
	return &gqlgen.Response{Errors: gqlerror.List{{Message: message}}}
}

func writeResponse(w http.ResponseWriter, code int, resp *gqlgen.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}
