// Package mux implements request routing and argument binding for
// declaratively registered endpoints.
//
// The package implements routing semantics based on:
//   - RFC 9110 (HTTP Semantics)
//   - RFC 3986 (URIs)
//
// # Tables
//
// A Table holds the endpoints of one handler type, indexed by method and
// then by a path key in which every placeholder segment is a wildcard.
// Each registration declares where its arguments come from:
//
//	t := mux.NewTable("users")
//	t.MustRegister(mux.Route{
//	    Path:      "/users/{id:int}",
//	    Methods:   []string{http.MethodGet},
//	    QueryArgs: []mux.Decl{mux.Arg("?expand"), mux.ArgDefault("limit", 10, mux.TypeInt)},
//	}, getUser)
//
// Actions receive the bound arguments as Args:
//
//	func getUser(ctx context.Context, args mux.Args) (any, error) {
//	    id, _ := mux.ArgValue[int64](args, "id")
//	    ...
//	}
//
// # Declarations
//
// The argument name accepts a small grammar:
//
//	"name"          required, any type
//	"?name"         optional, nil when missing
//	"name=default"  optional with a literal text default
//
// Types are tried in the order given. ArgOneOf restricts a value to a
// literal set. Placeholders in the path template take a type or macro
// after a colon:
//
//	/users/{id:uuid}
//	/articles/{page:int}
//	/posts/{slug:slug}
//	/events/{d:date}
//
// Available macros: slug, alpha, alphanum, date and hex. Any other suffix
// is used as a raw regular expression.
//
// # Binding
//
// Values are read from the path captures, the query string, the body and
// the headers, and coerced to the declared types. Text is parsed into
// ints, floats, bools, UUIDs, times, lists and maps. With
// CapitalizationFallback, a missing name is retried in camelCase and
// snake_case and the result is keyed by the snake_case name.
//
// # Dispatch
//
// Dispatcher.Dispatch runs a Request through path normalisation, endpoint
// lookup, binding and the action, and reports the terminal State:
//
//	d := mux.NewDispatcher(t)
//	res, err := d.Dispatch(ctx, mux.Request{Method: "GET", Path: "/users/42"})
//
// Handler serves a Table over HTTP. PrefixRouter combines several tables
// and plain handlers by longest path prefix.
//
// # Configuration
//
// Config is read from YAML with LoadConfig or from the environment with
// ConfigFromEnv, and applied with WithConfig. Routes can be declared in
// YAML and registered with LoadRoutes.
package mux
