package mux

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoAction returns the bound arguments.
func echoAction(_ context.Context, args Args) (any, error) {
	return args, nil
}

func newUsersTable(t *testing.T, opts ...Option) *Table {
	t.Helper()
	table := NewTable("users", opts...)
	table.MustRegister(Route{Path: "/users/{id:int}"}, echoAction)
	table.MustRegister(Route{
		Path:      "/users",
		Methods:   []string{"GET", "POST"},
		QueryArgs: []Decl{ArgDefault("limit", int64(20), TypeInt), ArgOneOf("order", "asc", "desc").Default("asc")},
		BodyArgs:  []Decl{Arg("?name", TypeString)},
	}, echoAction)
	table.MustRegister(Route{
		Path:       "/tenants/{tenant:uuid}/users",
		HeaderArgs: []Decl{Arg("X-Request-Id", TypeString)},
	}, echoAction)
	table.MustRegister(Route{
		Path:                   "/profiles",
		Methods:                []string{"PUT"},
		BodyArgs:               []Decl{Arg("user_id", TypeInt), Arg("display_name")},
		CapitalizationFallback: true,
	}, echoAction)
	return table
}

func TestDispatch(t *testing.T) {
	tenant := uuid.New()

	tests := []struct {
		name      string
		req       Request
		wantState State
		wantArgs  Args
		wantAllow []string
		wantErr   error
	}{
		{
			name:      "typed path argument",
			req:       Request{Method: "GET", Path: "/users/42"},
			wantState: StateResponseSent,
			wantArgs:  Args{"id": int64(42)},
		},
		{
			name:      "path argument type mismatch",
			req:       Request{Method: "GET", Path: "/users/abc"},
			wantState: StateArgumentError,
			wantErr:   ErrArgumentTypeMismatch,
		},
		{
			name:      "empty method means GET",
			req:       Request{Path: "/users/7/"},
			wantState: StateResponseSent,
			wantArgs:  Args{"id": int64(7)},
		},
		{
			name:      "dot segments normalized",
			req:       Request{Method: "get", Path: "/groups/../users/./7"},
			wantState: StateResponseSent,
			wantArgs:  Args{"id": int64(7)},
		},
		{
			name:      "query defaults",
			req:       Request{Method: "GET", Path: "/users"},
			wantState: StateResponseSent,
			wantArgs:  Args{"limit": int64(20), "order": "asc", "name": nil},
		},
		{
			name: "query and body",
			req: Request{
				Method: "POST",
				Path:   "/users",
				Query:  map[string]any{"limit": []string{"5"}, "Order": []string{"desc"}},
				Body:   map[string]any{"name": "ann"},
			},
			wantState: StateResponseSent,
			wantArgs:  Args{"limit": int64(5), "order": "desc", "name": "ann"},
		},
		{
			name:      "literal set violation",
			req:       Request{Method: "GET", Path: "/users", Query: map[string]any{"order": "up"}},
			wantState: StateArgumentError,
			wantErr:   ErrArgumentTypeMismatch,
		},
		{
			name: "header argument",
			req: Request{
				Method: "GET",
				Path:   "/tenants/" + tenant.String() + "/users",
				Header: map[string]any{"X-Request-Id": []string{"abc"}},
			},
			wantState: StateResponseSent,
			wantArgs:  Args{"tenant": tenant, "X-Request-Id": "abc"},
		},
		{
			name:      "missing header",
			req:       Request{Method: "GET", Path: "/tenants/" + tenant.String() + "/users"},
			wantState: StateArgumentError,
			wantErr:   ErrMissingArgument,
		},
		{
			name: "capitalization fallback",
			req: Request{
				Method: "PUT",
				Path:   "/profiles",
				Body:   map[string]any{"userId": int64(9), "displayName": "Ann"},
			},
			wantState: StateResponseSent,
			wantArgs:  Args{"user_id": int64(9), "display_name": "Ann"},
		},
		{
			name:      "method not allowed",
			req:       Request{Method: "DELETE", Path: "/users"},
			wantState: StateMethodNotAllowed,
			wantAllow: []string{"GET", "POST"},
			wantErr:   ErrMethodNotAllowed,
		},
		{
			name:      "method without endpoints at unknown path",
			req:       Request{Method: "DELETE", Path: "/nope"},
			wantState: StateMethodNotAllowed,
			wantErr:   ErrMethodNotAllowed,
		},
		{
			name:      "not found",
			req:       Request{Method: "GET", Path: "/unknown"},
			wantState: StateNotFound,
			wantErr:   ErrNotFound,
		},
		{
			name:      "known method at another path",
			req:       Request{Method: "PUT", Path: "/users"},
			wantState: StateNotFound,
			wantErr:   ErrNotFound,
		},
		{
			name:      "uuid argument mismatch",
			req:       Request{Method: "GET", Path: "/tenants/nope/users"},
			wantState: StateArgumentError,
			wantErr:   ErrArgumentTypeMismatch,
		},
		{
			name:      "generated OPTIONS",
			req:       Request{Method: "OPTIONS", Path: "/users"},
			wantState: StateResponseSent,
			wantAllow: []string{"GET", "OPTIONS", "POST"},
		},
		{
			name:      "generated OPTIONS for unknown path",
			req:       Request{Method: "OPTIONS", Path: "/unknown"},
			wantState: StateNotFound,
			wantErr:   ErrNotFound,
		},
	}

	d := NewDispatcher(newUsersTable(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Dispatch(context.Background(), tt.req)

			assert.Equal(t, tt.wantState, res.State, "state %s", res.State)
			assert.Equal(t, tt.wantAllow, res.Allow)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.wantArgs != nil {
				assert.Equal(t, tt.wantArgs, res.Args)
				assert.Equal(t, tt.wantArgs, res.Value)
			}
		})
	}
}

func TestDispatchArgumentErrorDetails(t *testing.T) {
	d := NewDispatcher(newUsersTable(t))

	res, err := d.Dispatch(context.Background(), Request{Method: "GET", Path: "/users/abc"})
	var argErr *ArgumentError
	require.True(t, errors.As(err, &argErr))

	assert.Equal(t, SourcePath, argErr.Source)
	assert.Equal(t, "id", argErr.Name)
	assert.Equal(t, `argument "id" must be of type int, got "abc"`, argErr.Reason)
	require.NotNil(t, res.Endpoint)
	assert.Equal(t, "GET /users/{id:int}", res.Endpoint.Name)
}

func TestDispatchOptionsDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GenerateOptions = false
	d := NewDispatcher(newUsersTable(t), WithConfig(cfg))

	res, err := d.Dispatch(context.Background(), Request{Method: "OPTIONS", Path: "/users"})
	assert.ErrorIs(t, err, ErrMethodNotAllowed)
	assert.Equal(t, StateMethodNotAllowed, res.State)
	assert.False(t, res.Options)
}

func TestDispatchOptionsRegistered(t *testing.T) {
	table := NewTable("t")
	table.MustRegister(Route{Path: "/y", Methods: []string{"GET", "OPTIONS"}}, noopAction)

	res, err := NewDispatcher(table).Dispatch(context.Background(), Request{Method: "OPTIONS", Path: "/y"})
	require.NoError(t, err)
	assert.True(t, res.Options)
	assert.Equal(t, []string{"GET", "OPTIONS"}, res.Allow)
}

func TestDispatchFallback(t *testing.T) {
	fallback := func(_ context.Context, args Args) (any, error) {
		return "fallback", nil
	}

	t.Run("used when 405 is disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Return405 = false
		d := NewDispatcher(newUsersTable(t, WithFallback("PATCH", fallback)), WithConfig(cfg))

		res, err := d.Dispatch(context.Background(), Request{Method: "PATCH", Path: "/anything"})
		require.NoError(t, err)
		assert.Equal(t, StateResponseSent, res.State)
		assert.Equal(t, "fallback", res.Value)
		assert.Nil(t, res.Endpoint)
	})

	t.Run("ignored when 405 is enabled", func(t *testing.T) {
		d := NewDispatcher(newUsersTable(t, WithFallback("PATCH", fallback)))

		_, err := d.Dispatch(context.Background(), Request{Method: "PATCH", Path: "/users"})
		assert.ErrorIs(t, err, ErrMethodNotAllowed)
	})

	t.Run("405 without fallback", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Return405 = false
		d := NewDispatcher(newUsersTable(t), WithConfig(cfg))

		_, err := d.Dispatch(context.Background(), Request{Method: "PATCH", Path: "/users"})
		assert.ErrorIs(t, err, ErrMethodNotAllowed)
	})
}

func TestDispatchBasePath(t *testing.T) {
	d := NewDispatcher(newUsersTable(t), WithBasePath("/api/v1"))

	res, err := d.Dispatch(context.Background(), Request{Method: "GET", Path: "/API/v1/users/3"})
	require.NoError(t, err)
	assert.Equal(t, Args{"id": int64(3)}, res.Args)

	res, err = d.Dispatch(context.Background(), Request{Method: "OPTIONS", Path: "/api/v1/users/3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"GET", "OPTIONS"}, res.Allow)
}

func TestDispatchTrimStrings(t *testing.T) {
	table := NewTable("t")
	table.MustRegister(Route{Path: "/q", QueryArgs: []Decl{Arg("s", TypeString)}}, echoAction)

	cfg := DefaultConfig()
	cfg.TrimStrings = false

	res, err := NewDispatcher(table, WithConfig(cfg)).Dispatch(context.Background(),
		Request{Path: "/q", Query: map[string]any{"s": " x "}})
	require.NoError(t, err)
	assert.Equal(t, " x ", res.Args["s"])

	res, err = NewDispatcher(table).Dispatch(context.Background(),
		Request{Path: "/q", Query: map[string]any{"s": " x "}})
	require.NoError(t, err)
	assert.Equal(t, "x", res.Args["s"])
}

func TestDispatchActionError(t *testing.T) {
	errBoom := errors.New("boom")
	table := NewTable("t")
	table.MustRegister(Route{Path: "/fail"}, func(_ context.Context, _ Args) (any, error) {
		return nil, errBoom
	})

	res, err := NewDispatcher(table).Dispatch(context.Background(), Request{Path: "/fail"})
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, StateHandlerInvoked, res.State)
}

func TestDispatchForwardsContext(t *testing.T) {
	type key struct{}

	table := NewTable("t")
	table.MustRegister(Route{Path: "/ctx"}, func(ctx context.Context, _ Args) (any, error) {
		return ctx.Value(key{}), nil
	})

	ctx := context.WithValue(context.Background(), key{}, "value")
	res, err := NewDispatcher(table).Dispatch(ctx, Request{Path: "/ctx"})
	require.NoError(t, err)
	assert.Equal(t, "value", res.Value)
}

func TestDispatchLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.InfoLevel)

	d := NewDispatcher(newUsersTable(t), WithLogger(logger))
	_, err := d.Dispatch(context.Background(), Request{Method: "GET", Path: "/users/abc"})
	require.Error(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "argument binding failed", entry.Message)
	assert.Equal(t, "GET /users/{id:int}", entry.Data["endpoint"])
	assert.Equal(t, "users", entry.Data["table"])
}

func TestDispatchMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	d := NewDispatcher(newUsersTable(t), WithMetrics(m))

	for _, req := range []Request{
		{Method: "GET", Path: "/users/1"},
		{Method: "get", Path: "/users/2"},
		{Method: "GET", Path: "/users/x"},
		{Method: "DELETE", Path: "/users"},
		{Method: "GET", Path: "/nowhere"},
	} {
		d.Dispatch(context.Background(), req) //nolint:errcheck
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.total.WithLabelValues("users", "GET", "response_sent")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.total.WithLabelValues("users", "GET", "argument_error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.total.WithLabelValues("users", "DELETE", "method_not_allowed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.total.WithLabelValues("users", "GET", "not_found")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "received", StateReceived.String())
	assert.Equal(t, "response_sent", StateResponseSent.String())
	assert.Equal(t, "State(42)", State(42).String())
}

func TestDispatcherAccessors(t *testing.T) {
	table := NewTable("t")
	d := NewDispatcher(table, WithBasePath("/x"))

	assert.Same(t, table, d.Table())
	assert.Equal(t, "/x", d.Config().BasePath)
	assert.True(t, d.Config().Return405)
}

func BenchmarkDispatch(b *testing.B) {
	table := NewTable("bench")
	table.MustRegister(Route{Path: "/users/{id:int}", QueryArgs: []Decl{Arg("?expand", TypeBool)}}, noopAction)
	d := NewDispatcher(table)
	req := Request{Method: http.MethodGet, Path: "/users/42", Query: map[string]any{"expand": []string{"true"}}}

	for b.Loop() {
		d.Dispatch(context.Background(), req) //nolint:errcheck
	}
}
