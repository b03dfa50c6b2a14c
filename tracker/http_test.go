package tracker_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	zenith "github.com/zenith-app/zenith-api"
	"github.com/zenith-app/zenith-api/tracker"
)

func TestClassRequestValidate(t *testing.T) {
	valid := tracker.ClassRequest{
		Subject:   "Mathematics",
		Day:       tracker.DayMon,
		StartTime: "09:00",
		EndTime:   "10:30",
	}

	tests := []struct {
		name    string
		mutate  func(*tracker.ClassRequest)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *tracker.ClassRequest) {}},
		{name: "missing subject", mutate: func(r *tracker.ClassRequest) { r.Subject = "" }, wantErr: true},
		{name: "unknown day", mutate: func(r *tracker.ClassRequest) { r.Day = "Monday" }, wantErr: true},
		{name: "bad start time", mutate: func(r *tracker.ClassRequest) { r.StartTime = "9am" }, wantErr: true},
		{name: "bad end time", mutate: func(r *tracker.ClassRequest) { r.EndTime = "25:0" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTaskRequestValidate(t *testing.T) {
	valid := tracker.TaskRequest{
		Subject:  "Science",
		Topic:    "Photosynthesis",
		Priority: tracker.PriorityHigh,
	}

	tests := []struct {
		name    string
		mutate  func(*tracker.TaskRequest)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *tracker.TaskRequest) {}},
		{name: "priority is optional", mutate: func(r *tracker.TaskRequest) { r.Priority = "" }},
		{name: "missing topic", mutate: func(r *tracker.TaskRequest) { r.Topic = "" }, wantErr: true},
		{name: "unknown priority", mutate: func(r *tracker.TaskRequest) { r.Priority = "urgent" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransactionRequestValidate(t *testing.T) {
	valid := tracker.TransactionRequest{
		Type:     tracker.TransactionExpense,
		Amount:   12.5,
		Category: "Food",
	}

	tests := []struct {
		name    string
		mutate  func(*tracker.TransactionRequest)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *tracker.TransactionRequest) {}},
		{name: "unknown type", mutate: func(r *tracker.TransactionRequest) { r.Type = "transfer" }, wantErr: true},
		{name: "zero amount", mutate: func(r *tracker.TransactionRequest) { r.Amount = 0 }, wantErr: true},
		{name: "missing category", mutate: func(r *tracker.TransactionRequest) { r.Category = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransactionPatchValidate(t *testing.T) {
	tests := []struct {
		name    string
		patch   tracker.TransactionPatch
		wantErr bool
	}{
		{name: "empty patch", patch: tracker.TransactionPatch{}},
		{name: "positive amount", patch: tracker.TransactionPatch{Amount: ptr(25.0)}},
		{name: "negative amount", patch: tracker.TransactionPatch{Amount: ptr(-50.0)}, wantErr: true},
		{name: "unknown type", patch: tracker.TransactionPatch{Type: ptr(tracker.TransactionType("transfer"))}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// identityGate is a stand-in for the session middleware: it attaches a fixed
// identity to the request context.
func identityGate(user *zenith.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user != nil {
			c.SetUserContext(zenith.WithContext(c.UserContext(), user))
		}
		return c.Next()
	}
}

func newTrackerApp(t *testing.T, user *zenith.User) (*fiber.App, *tracker.Store) {
	t.Helper()

	store := setupStore(t)
	controller := tracker.NewController(tracker.WithStore(store))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return zenith.WriteError(c, nil, err)
		},
	})
	tracker.RegisterRoutes(app.Group("/api"), controller, identityGate(user))

	return app, store
}

func jsonRequest(method, target string, payload any) *http.Request {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	return req
}

func decodeBody(t *testing.T, res *http.Response, out any) {
	t.Helper()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestClassRoutes(t *testing.T) {
	user := &zenith.User{ID: uuid.New()}
	app, store := newTrackerApp(t, user)

	t.Run("create returns the stored record", func(t *testing.T) {
		res, err := app.Test(jsonRequest(http.MethodPost, "/api/classes/", map[string]any{
			"subject":   "History",
			"day":       "Wed",
			"startTime": "14:00",
			"endTime":   "15:30",
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, res.StatusCode)

		created := tracker.ClassItem{}
		decodeBody(t, res, &created)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, user.ID, created.UserID)
		assert.Equal(t, tracker.DefaultClassColor, created.Color)
	})

	t.Run("list returns only the caller's classes", func(t *testing.T) {
		stranger := uuid.New()
		_, err := store.CreateClass(context.Background(), stranger, &tracker.ClassItem{
			Subject:   "Secret",
			Day:       tracker.DayFri,
			StartTime: "08:00",
			EndTime:   "09:00",
		})
		require.NoError(t, err)

		res, err := app.Test(jsonRequest(http.MethodGet, "/api/classes/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)

		items := []tracker.ClassItem{}
		decodeBody(t, res, &items)
		require.Len(t, items, 1)
		assert.Equal(t, "History", items[0].Subject)
	})

	t.Run("invalid payload is rejected", func(t *testing.T) {
		res, err := app.Test(jsonRequest(http.MethodPost, "/api/classes/", map[string]any{
			"subject": "History",
			"day":     "Someday",
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("malformed resource id is rejected", func(t *testing.T) {
		res, err := app.Test(jsonRequest(http.MethodPut, "/api/classes/not-a-uuid", map[string]any{
			"subject": "Renamed",
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("updating a stranger's class is a 404", func(t *testing.T) {
		stranger := uuid.New()
		theirs, err := store.CreateClass(context.Background(), stranger, &tracker.ClassItem{
			Subject:   "Secret",
			Day:       tracker.DayFri,
			StartTime: "08:00",
			EndTime:   "09:00",
		})
		require.NoError(t, err)

		res, err := app.Test(jsonRequest(http.MethodPut, "/api/classes/"+theirs.ID.String(), map[string]any{
			"subject": "Hijacked",
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("delete reports ok", func(t *testing.T) {
		res, err := app.Test(jsonRequest(http.MethodDelete, "/api/classes/"+uuid.NewString(), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)

		body := map[string]bool{}
		decodeBody(t, res, &body)
		assert.True(t, body["ok"])
	})
}

func TestTaskRoutes(t *testing.T) {
	user := &zenith.User{ID: uuid.New()}
	app, _ := newTrackerApp(t, user)

	res, err := app.Test(jsonRequest(http.MethodPost, "/api/tasks/", map[string]any{
		"subject": "English",
		"topic":   "Essay outline",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	created := tracker.Task{}
	decodeBody(t, res, &created)
	assert.Equal(t, tracker.PriorityMedium, created.Priority)

	t.Run("completion round-trips through the patch route", func(t *testing.T) {
		res, err := app.Test(jsonRequest(http.MethodPut, "/api/tasks/"+created.ID.String(), map[string]any{
			"completed": true,
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)

		updated := tracker.Task{}
		decodeBody(t, res, &updated)
		assert.True(t, updated.Completed)
		assert.NotNil(t, updated.CompletedAt)
	})
}

func TestTransactionRoutes(t *testing.T) {
	user := &zenith.User{ID: uuid.New()}
	app, store := newTrackerApp(t, user)

	for _, payload := range []map[string]any{
		{"type": "income", "amount": 500.0, "category": "Allowance"},
		{"type": "expense", "amount": 120.0, "category": "Books"},
	} {
		res, err := app.Test(jsonRequest(http.MethodPost, "/api/transactions/", payload))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, res.StatusCode)
	}

	t.Run("summary route is not shadowed by the id routes", func(t *testing.T) {
		res, err := app.Test(jsonRequest(http.MethodGet, "/api/transactions/summary/month", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)

		summary := tracker.MonthlySummary{}
		decodeBody(t, res, &summary)
		assert.InDelta(t, 500.0, summary.Income, 0.001)
		assert.InDelta(t, 120.0, summary.Expense, 0.001)
		assert.InDelta(t, 380.0, summary.Balance, 0.001)
	})

	t.Run("negative amount patch is rejected", func(t *testing.T) {
		res, err := app.Test(jsonRequest(http.MethodPost, "/api/transactions/", map[string]any{
			"type": "expense", "amount": 40.0, "category": "Snacks",
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, res.StatusCode)

		record := tracker.Transaction{}
		decodeBody(t, res, &record)

		res, err = app.Test(jsonRequest(http.MethodPut, "/api/transactions/"+record.ID.String(), map[string]any{
			"amount": -50.0,
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)

		stored, err := store.GetTransaction(context.Background(), user.ID, record.ID)
		require.NoError(t, err)
		assert.InDelta(t, 40.0, stored.Amount, 0.001)
	})

	t.Run("unknown type patch is rejected", func(t *testing.T) {
		res, err := app.Test(jsonRequest(http.MethodPost, "/api/transactions/", map[string]any{
			"type": "income", "amount": 10.0, "category": "Misc",
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, res.StatusCode)

		record := tracker.Transaction{}
		decodeBody(t, res, &record)

		res, err = app.Test(jsonRequest(http.MethodPut, "/api/transactions/"+record.ID.String(), map[string]any{
			"type": "transfer",
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestRoutesRequireIdentity(t *testing.T) {
	app, _ := newTrackerApp(t, nil)

	for _, target := range []string{"/api/classes/", "/api/tasks/", "/api/transactions/"} {
		t.Run(fmt.Sprintf("GET %s", target), func(t *testing.T) {
			res, err := app.Test(jsonRequest(http.MethodGet, target, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		})
	}
}
