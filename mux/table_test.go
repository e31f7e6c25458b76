package mux

import (
	"context"
	"net/http"
	"slices"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopAction(_ context.Context, _ Args) (any, error) {
	return nil, nil
}

func TestTableRegister(t *testing.T) {
	table := NewTable("users")

	eps, err := table.Register(Route{
		Path:       "/users/{id:int}",
		Methods:    []string{"get", "DELETE"},
		QueryArgs:  []Decl{Arg("?expand")},
		HeaderArgs: []Decl{Arg("X-Tenant")},
	}, noopAction)
	require.NoError(t, err)
	require.Len(t, eps, 2)

	assert.Equal(t, "GET", eps[0].Method)
	assert.Equal(t, "DELETE", eps[1].Method)
	for _, e := range eps {
		assert.Equal(t, "/users/{id}", e.Key)
		assert.Equal(t, "/users/{id:int}", e.Template)
		assert.Equal(t, e.Method+" /users/{id:int}", e.Name)
		assert.Same(t, table, e.Table)
		require.Len(t, e.PathArgs, 1)
		assert.Equal(t, []ArgType{TypeInt}, e.PathArgs[0].Types)
		require.Len(t, e.QueryArgs, 1)
		assert.False(t, e.QueryArgs[0].Required)
		require.Len(t, e.HeaderArgs, 1)
	}

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"DELETE", "GET"}, table.Methods())
}

func TestTableRegisterMethods(t *testing.T) {
	tests := []struct {
		name    string
		methods []string
		want    []string
	}{
		{name: "default GET", methods: nil, want: []string{"GET"}},
		{name: "uppercased", methods: []string{"post"}, want: []string{"POST"}},
		{name: "duplicates dropped", methods: []string{"GET", "get"}, want: []string{"GET"}},
		{name: "star expands", methods: []string{"*"}, want: DefaultMethods},
		{name: "star with extra", methods: []string{"*", "PURGE"}, want: append(slices.Clone(DefaultMethods), "PURGE")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eps, err := NewTable("t").Register(Route{Path: "/x", Methods: tt.methods}, noopAction)
			require.NoError(t, err)

			var got []string
			for _, e := range eps {
				got = append(got, e.Method)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableRegisterErrors(t *testing.T) {
	tests := []struct {
		name   string
		route  Route
		action Action
	}{
		{name: "nil action", route: Route{Path: "/x"}},
		{name: "empty path", route: Route{}, action: noopAction},
		{name: "bad template", route: Route{Path: "/x/{"}, action: noopAction},
		{name: "bad method", route: Route{Path: "/x", Methods: []string{"GE T"}}, action: noopAction},
		{name: "empty method", route: Route{Path: "/x", Methods: []string{" "}}, action: noopAction},
		{name: "bad query arg", route: Route{Path: "/x", QueryArgs: []Decl{Arg("")}}, action: noopAction},
		{name: "bad body arg", route: Route{Path: "/x", BodyArgs: []Decl{Arg("a"), Arg("A")}}, action: noopAction},
		{name: "bad header arg", route: Route{Path: "/x", HeaderArgs: []Decl{Arg("Bad(Name)")}}, action: noopAction},
		{name: "path arg mismatch", route: Route{Path: "/x/{id}", PathArgs: []Decl{Arg("other")}}, action: noopAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable("t")
			_, err := table.Register(tt.route, tt.action)
			assert.ErrorIs(t, err, ErrInvalidDeclaration)
			assert.Zero(t, table.Len())
		})
	}

	t.Run("MustRegister panics", func(t *testing.T) {
		assert.Panics(t, func() { NewTable("t").MustRegister(Route{}, noopAction) })
	})
}

func TestTableRegisterReplaces(t *testing.T) {
	table := NewTable("t")
	table.MustRegister(Route{Path: "/x/{a}"}, noopAction)
	eps := table.MustRegister(Route{Path: "/x/{b:int}", Name: "second"}, noopAction)

	e, err := table.Resolve("GET", "/x/1", "")
	require.NoError(t, err)
	assert.Same(t, eps[0], e)
	assert.Equal(t, "second", e.Name)
	assert.Equal(t, 1, table.Len())
}

func TestTableResolve(t *testing.T) {
	table := NewTable("t")
	table.MustRegister(Route{Path: "/x"}, noopAction)
	table.MustRegister(Route{Path: "/users/{id}"}, noopAction)
	table.MustRegister(Route{Path: "/users/me"}, noopAction)
	table.MustRegister(Route{Path: "/users/{id}", Methods: []string{"PUT"}}, noopAction)

	tests := []struct {
		name     string
		method   string
		path     string
		base     string
		wantTmpl string
		wantErr  error
	}{
		{name: "literal", method: "GET", path: "/x", wantTmpl: "/x"},
		{name: "trailing slash", method: "GET", path: "/x/", wantTmpl: "/x"},
		{name: "case-insensitive", method: "get", path: "/X", wantTmpl: "/x"},
		{name: "literal beats wildcard", method: "GET", path: "/users/me", wantTmpl: "/users/me"},
		{name: "wildcard", method: "GET", path: "/users/42", wantTmpl: "/users/{id}"},
		{name: "base path", method: "GET", path: "/api/users/42", base: "/api", wantTmpl: "/users/{id}"},
		{name: "method without endpoints", method: "POST", path: "/x", wantErr: ErrMethodNotAllowed},
		{name: "known method unknown path", method: "PUT", path: "/x", wantErr: ErrNotFound},
		{name: "unknown path", method: "GET", path: "/unknown", wantErr: ErrNotFound},
		{name: "too deep", method: "GET", path: "/users/42/posts", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := table.Resolve(tt.method, tt.path, tt.base)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, e)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTmpl, e.Template)
		})
	}
}

func TestTableAllowedMethods(t *testing.T) {
	table := NewTable("t")
	table.MustRegister(Route{Path: "/y", Methods: []string{"POST", "GET"}}, noopAction)
	table.MustRegister(Route{Path: "/y/{id}", Methods: []string{"DELETE"}}, noopAction)

	assert.Equal(t, []string{"GET", "POST"}, table.AllowedMethods("/y", ""))
	assert.Equal(t, []string{"DELETE"}, table.AllowedMethods("/y/1", ""))
	assert.Equal(t, []string{"GET", "POST"}, table.AllowedMethods("/v1/y/", "/v1"))
	assert.Empty(t, table.AllowedMethods("/z", ""))
}

func TestTableEndpoints(t *testing.T) {
	table := NewTable("t")
	table.MustRegister(Route{Path: "/b", Methods: []string{"POST"}}, noopAction)
	table.MustRegister(Route{Path: "/a/{id}"}, noopAction)
	table.MustRegister(Route{Path: "/a/list"}, noopAction)

	var got [][2]string
	for method, tmpl := range table.Endpoints() {
		got = append(got, [2]string{method, tmpl})
	}
	assert.Equal(t, [][2]string{
		{"GET", "/a/list"},
		{"GET", "/a/{id}"},
		{"POST", "/b"},
	}, got)

	var methods []string
	for e := range table.All() {
		methods = append(methods, e.Method)
	}
	assert.Equal(t, []string{"GET", "GET", "POST"}, methods)
}

func TestTableFallback(t *testing.T) {
	called := false
	table := NewTable("t", WithFallback("patch", func(_ context.Context, _ Args) (any, error) {
		called = true
		return nil, nil
	}))

	a, ok := table.Fallback(http.MethodPatch)
	require.True(t, ok)
	_, err := a(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, called)

	_, ok = table.Fallback("PUT")
	assert.False(t, ok)

	table.SetFallback("put", noopAction)
	_, ok = table.Fallback("PUT")
	assert.True(t, ok)

	_, ok = NewTable("empty").Fallback("GET")
	assert.False(t, ok)
}

func TestTableHandle(t *testing.T) {
	table := NewTable("t")
	require.NoError(t, table.Handle("POST", "/items", noopAction, Arg("name", TypeString)))

	e, err := table.Resolve("POST", "/items", "")
	require.NoError(t, err)
	require.Len(t, e.QueryArgs, 1)
	assert.Equal(t, "name", e.QueryArgs[0].Name)

	assert.Error(t, table.Handle("GET", "/x/{", noopAction))
}

func TestTableLogsRegistration(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	NewTable("users", WithLogger(logger)).MustRegister(Route{Path: "/users"}, noopAction)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "registering endpoint", entry.Message)
	assert.Equal(t, logrus.Fields{"table": "users", "method": "GET", "path": "/users"}, entry.Data)
}
