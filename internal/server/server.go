package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hanpama/gqlcore/internal/errcode"
	"github.com/hanpama/gqlcore/internal/eventbus"
	"github.com/hanpama/gqlcore/internal/events"
	"github.com/hanpama/gqlcore/internal/executor"
	"github.com/hanpama/gqlcore/internal/language"
	"github.com/hanpama/gqlcore/internal/reqid"
	"github.com/hanpama/gqlcore/internal/schema"
	"github.com/hanpama/gqlcore/internal/validator"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"google.golang.org/grpc/metadata"
)

// Handler is an http.Handler that serves a GraphQL endpoint.
// It parses requests, validates and executes them, and writes the result as
// JSON.
type Handler struct {
	schema    *schema.Schema
	validator *validator.Validator
	opt       Options
}

type Options struct {
	// Timeout sets a default timeout if the incoming request context has none.
	// 0 means no default timeout.
	Timeout time.Duration

	// Pretty enables indented JSON responses (useful for dev).
	Pretty bool

	// MaxBodyBytes limits the size of the request body. 0 means unlimited.
	MaxBodyBytes int64

	// CORS configuration. If AllowedOrigins is empty, CORS is disabled.
	CORS CORSOptions

	// MetadataHeaders lists HTTP headers to forward into gRPC metadata.
	// Header names are case-insensitive. Default is none.
	MetadataHeaders []string

	// Validation runs the validator before execution. Default is true.
	Validation bool

	// Introspection allows __schema and __type. Default is true. Disabling
	// it requires Validation.
	Introspection bool

	// Concurrency is passed to executor.WithConcurrency. Default is 1.
	Concurrency int

	// RootValue is the source of root fields.
	RootValue any

	Logger *slog.Logger
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }
func WithPretty() Option                 { return func(o *Options) { o.Pretty = true } }
func WithMaxBodyBytes(n int64) Option    { return func(o *Options) { o.MaxBodyBytes = n } }
func WithCORS(origins ...string) Option {
	return func(o *Options) { o.CORS.AllowedOrigins = origins }
}
func WithMetadataHeaders(headers ...string) Option {
	return func(o *Options) { o.MetadataHeaders = headers }
}
func WithValidation(enable bool) Option    { return func(o *Options) { o.Validation = enable } }
func WithIntrospection(enable bool) Option { return func(o *Options) { o.Introspection = enable } }
func WithConcurrency(n int) Option         { return func(o *Options) { o.Concurrency = n } }
func WithRootValue(v any) Option           { return func(o *Options) { o.RootValue = v } }
func WithLogger(l *slog.Logger) Option     { return func(o *Options) { o.Logger = l } }

// CORSOptions holds simple CORS settings.
type CORSOptions struct {
	AllowedOrigins []string
}

// New creates a GraphQL HTTP handler for s.
func New(s *schema.Schema, opts ...Option) (*Handler, error) {
	op := Options{
		Timeout:       10 * time.Second,
		Validation:    true,
		Introspection: true,
		Concurrency:   1,
		Logger:        slog.Default(),
	}
	for _, f := range opts {
		f(&op)
	}
	if !op.Introspection && !op.Validation {
		return nil, errors.New("server: disabling introspection requires validation")
	}

	h := &Handler{schema: s, opt: op}
	if op.Validation {
		var vopts []validator.Option
		if !op.Introspection {
			vopts = append(vopts, validator.WithoutIntrospection())
		}
		v, err := validator.New(s, vopts...)
		if err != nil {
			return nil, err
		}
		h.validator = v
	}
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := ctx.Deadline(); !ok && h.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opt.Timeout)
		defer cancel()
	}

	var rid string
	if supplied := r.Header.Get(reqid.Header); supplied != "" {
		ctx = reqid.WithID(ctx, supplied)
		rid, _ = reqid.FromContext(ctx)
	} else {
		ctx, rid = reqid.NewContext(ctx)
	}
	w.Header().Set(reqid.Header, rid)

	status := http.StatusOK
	start := time.Now()
	eventbus.Publish(ctx, events.HTTPStart{Request: r})
	defer func() {
		duration := time.Since(start)
		eventbus.Publish(ctx, events.HTTPFinish{Request: r, Status: status, Duration: duration})
		h.opt.Logger.InfoContext(ctx, "request finished",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", duration)
	}()

	if r.Method == http.MethodOptions {
		if len(h.opt.CORS.AllowedOrigins) > 0 {
			setCORSHeaders(w, r, h.opt.CORS)
		}
		status = http.StatusNoContent
		w.WriteHeader(status)
		return
	}

	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		status = http.StatusMethodNotAllowed
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		writeJSON(w, status, errorResponse(gqlerror.Errorf("method not allowed")), h.opt.Pretty)
		return
	}

	// Map configured headers into metadata
	md := metadata.MD{}
	if len(h.opt.MetadataHeaders) > 0 {
		allowed := make(map[string]struct{}, len(h.opt.MetadataHeaders))
		for _, hdr := range h.opt.MetadataHeaders {
			allowed[strings.ToLower(hdr)] = struct{}{}
		}
		for k, v := range r.Header {
			if _, ok := allowed[strings.ToLower(k)]; ok {
				md[strings.ToLower(k)] = v
			}
		}
	}
	md["graphql-request-id"] = []string{rid}
	ctx = metadata.NewOutgoingContext(ctx, md)

	if len(h.opt.CORS.AllowedOrigins) > 0 {
		setCORSHeaders(w, r, h.opt.CORS)
	}

	req, perr := parseRequest(r, h.opt.MaxBodyBytes)
	if perr != nil {
		status = perr.status
		h.opt.Logger.DebugContext(ctx, "request rejected", "error", perr.err.Message)
		writeJSON(w, status, errorResponse(perr.err), h.opt.Pretty)
		return
	}

	var res any
	status, res = h.executeOne(ctx, r.Method, req)
	writeJSON(w, status, res, h.opt.Pretty)
}

func (h *Handler) executeOne(ctx context.Context, method string, req GraphQLRequest) (int, any) {
	if req.Query == "" {
		if _, ok := req.Extensions["persistedQuery"]; ok {
			return h.reject(ctx, req, http.StatusOK, errcode.Errorf(errcode.PersistedQueryNotFound, "PersistedQueryNotFound"))
		}
		return h.reject(ctx, req, http.StatusBadRequest, gqlerror.Errorf("missing 'query'"))
	}

	// Parse query (syntax validation)
	doc, err := language.Parse(req.Query)
	if err != nil {
		var ge *gqlerror.Error
		if !errors.As(err, &ge) {
			ge = errcode.Errorf(errcode.ParseFailed, "%s", err.Error())
		}
		return h.reject(ctx, req, http.StatusBadRequest, ge)
	}
	if h.validator != nil {
		if errs := h.validator.Validate(req.Query); len(errs) > 0 {
			return h.reject(ctx, req, http.StatusBadRequest, errs...)
		}
	}

	opType := operationType(doc, req.OperationName)
	if method == http.MethodGet && opType == language.Mutation {
		return h.reject(ctx, req, http.StatusMethodNotAllowed, gqlerror.Errorf("Can only perform a mutation operation from a POST request."))
	}

	start := time.Now()
	eventbus.Publish(ctx, events.GraphQLStart{Query: req.Query, OperationName: req.OperationName, OperationType: opType})
	result := executor.Execute(ctx, executor.Params{
		Schema:         h.schema,
		Document:       doc,
		RootValue:      h.opt.RootValue,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
	}, executor.WithConcurrency(h.opt.Concurrency), executor.WithLogger(h.opt.Logger))
	eventbus.Publish(ctx, events.GraphQLFinish{
		Query:         req.Query,
		OperationName: req.OperationName,
		OperationType: opType,
		Errors:        result.Errors,
		Duration:      time.Since(start),
	})
	if len(result.Errors) > 0 {
		h.opt.Logger.DebugContext(ctx, "operation finished with errors",
			"operation", req.OperationName,
			"errors", len(result.Errors),
			"data", result.HasData())
	}
	return http.StatusOK, result
}

func (h *Handler) reject(ctx context.Context, req GraphQLRequest, status int, errs ...*gqlerror.Error) (int, any) {
	list := gqlerror.List(errs)
	eventbus.Publish(ctx, events.GraphQLRejected{Query: req.Query, Errors: list})
	h.opt.Logger.DebugContext(ctx, "request rejected", "status", status, "error", list[0].Message)
	return status, response{Errors: list}
}

// operationType names the kind of the operation that will run, or "" when
// the selection is ambiguous.
func operationType(doc *language.Document, name string) string {
	var found *language.OperationDefinition
	for _, def := range doc.Definitions {
		op, ok := def.(*language.OperationDefinition)
		if !ok {
			continue
		}
		if name == "" {
			if found != nil {
				return ""
			}
			found = op
		} else if op.Name == name {
			found = op
			break
		}
	}
	if found == nil {
		return ""
	}
	return found.Operation
}

// ------------------ Request parsing ------------------

type GraphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
	Extensions    map[string]any `json:"extensions,omitempty"`
}

type requestError struct {
	status int
	err    *gqlerror.Error
}

func badRequest(format string, args ...any) *requestError {
	return &requestError{status: http.StatusBadRequest, err: gqlerror.Errorf(format, args...)}
}

func parseRequest(r *http.Request, maxBody int64) (GraphQLRequest, *requestError) {
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		req := GraphQLRequest{Query: q.Get("query"), OperationName: q.Get("operationName")}
		if v := q.Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				return GraphQLRequest{}, badRequest("invalid 'variables' JSON")
			}
		}
		if v := q.Get("extensions"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Extensions); err != nil {
				return GraphQLRequest{}, badRequest("invalid 'extensions' JSON")
			}
		}
		return req, nil
	}

	// POST
	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" && !strings.HasPrefix(ct, "application/json;") {
		return GraphQLRequest{}, &requestError{
			status: http.StatusUnsupportedMediaType,
			err:    gqlerror.Errorf("unsupported Content-Type %q", ct),
		}
	}
	defer r.Body.Close()
	reader := io.Reader(r.Body)
	if maxBody > 0 {
		reader = io.LimitReader(r.Body, maxBody+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return GraphQLRequest{}, badRequest("failed to read body")
	}
	if maxBody > 0 && int64(len(body)) > maxBody {
		return GraphQLRequest{}, &requestError{status: http.StatusRequestEntityTooLarge, err: gqlerror.Errorf("body too large")}
	}
	if trimmed := strings.TrimSpace(string(body)); strings.HasPrefix(trimmed, "[") {
		return GraphQLRequest{}, badRequest("batched requests are not supported")
	}

	var req GraphQLRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return GraphQLRequest{}, badRequest("invalid JSON")
	}
	return req, nil
}

// ------------------ Response formatting ------------------

type response struct {
	Errors gqlerror.List `json:"errors"`
}

func errorResponse(err *gqlerror.Error) response {
	return response{Errors: gqlerror.List{err}}
}

func writeJSON(w http.ResponseWriter, status int, v any, pretty bool) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}

func setCORSHeaders(w http.ResponseWriter, r *http.Request, opts CORSOptions) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	allowed := false
	for _, o := range opts.AllowedOrigins {
		if o == "*" || o == origin {
			allowed = true
			break
		}
	}
	if !allowed {
		return
	}
	if contains(opts.AllowedOrigins, "*") {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}
	if r.Method == http.MethodOptions {
		if hdr := r.Header.Get("Access-Control-Request-Headers"); hdr != "" {
			w.Header().Set("Access-Control-Allow-Headers", hdr)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
