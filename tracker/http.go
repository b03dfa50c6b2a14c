package tracker

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	zenith "github.com/zenith-app/zenith-api"
)

// Controller mounts the schedule, task, and ledger routes. All of them sit
// behind the session gate, and every handler resolves the owner from the
// request identity, never from the payload.
type Controller struct {
	Store  *Store
	Logger zenith.Logger
}

type ControllerOption func(*Controller)

func WithStore(store *Store) ControllerOption {
	return func(c *Controller) {
		c.Store = store
	}
}

func WithLogger(logger zenith.Logger) ControllerOption {
	return func(c *Controller) {
		c.Logger = logger
	}
}

func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}
	if c.Store == nil {
		panic("tracker controller requires a store")
	}
	return c
}

// RegisterRoutes mounts the resource routes under the given router, each
// wrapped with the session gate.
func RegisterRoutes(api fiber.Router, controller *Controller, gate fiber.Handler) {
	classes := api.Group("/classes", gate)
	classes.Get("/", controller.ListClasses)
	classes.Post("/", controller.CreateClass)
	classes.Put("/:id", controller.UpdateClass)
	classes.Delete("/:id", controller.DeleteClass)

	tasks := api.Group("/tasks", gate)
	tasks.Get("/", controller.ListTasks)
	tasks.Post("/", controller.CreateTask)
	tasks.Put("/:id", controller.UpdateTask)
	tasks.Delete("/:id", controller.DeleteTask)

	transactions := api.Group("/transactions", gate)
	transactions.Get("/", controller.ListTransactions)
	transactions.Post("/", controller.CreateTransaction)
	transactions.Get("/summary/month", controller.MonthSummary)
	transactions.Put("/:id", controller.UpdateTransaction)
	transactions.Delete("/:id", controller.DeleteTransaction)
}

// ClassRequest is the create payload for a schedule slot.
type ClassRequest struct {
	Subject    string `json:"subject"`
	Instructor string `json:"instructor"`
	Day        Day    `json:"day"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Color      string `json:"color"`
}

func (r ClassRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Subject, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Day, validation.Required, validation.In(
			DayMon, DayTue, DayWed, DayThu, DayFri, DaySat, DaySun,
		)),
		validation.Field(&r.StartTime, validation.Required, validation.Match(clockPattern)),
		validation.Field(&r.EndTime, validation.Required, validation.Match(clockPattern)),
	)
}

// TaskRequest is the create payload for a study task.
type TaskRequest struct {
	Subject  string     `json:"subject"`
	Topic    string     `json:"topic"`
	Priority Priority   `json:"priority"`
	Deadline *time.Time `json:"deadline"`
}

func (r TaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Subject, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Topic, validation.Required, validation.Length(1, 240)),
		validation.Field(&r.Priority, validation.In(PriorityLow, PriorityMedium, PriorityHigh)),
	)
}

// TransactionRequest is the create payload for a ledger entry.
type TransactionRequest struct {
	Type     TransactionType `json:"type"`
	Amount   float64         `json:"amount"`
	Category string          `json:"category"`
	Note     string          `json:"note"`
	Date     *time.Time      `json:"date"`
}

func (r TransactionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.In(TransactionIncome, TransactionExpense)),
		validation.Field(&r.Amount, validation.Required, validation.Min(0.0)),
		validation.Field(&r.Category, validation.Required, validation.Length(1, 120)),
	)
}

// Validate rejects patches that would leave a ledger entry in a state the
// create path never allows, a negative amount in particular.
func (r TransactionPatch) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.In(TransactionIncome, TransactionExpense)),
		validation.Field(&r.Amount, validation.Min(0.0)),
		validation.Field(&r.Category, validation.Length(1, 120)),
	)
}

func (x *Controller) ListClasses(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	items, err := x.Store.ListClasses(c.UserContext(), owner)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.JSON(items)
}

func (x *Controller) CreateClass(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	payload := ClassRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}
	if err := payload.Validate(); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}

	record, err := x.Store.CreateClass(c.UserContext(), owner, &ClassItem{
		Subject:    payload.Subject,
		Instructor: payload.Instructor,
		Day:        payload.Day,
		StartTime:  payload.StartTime,
		EndTime:    payload.EndTime,
		Color:      payload.Color,
	})
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

func (x *Controller) UpdateClass(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	id, err := resourceID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	patch := ClassPatch{}
	if err := c.BodyParser(&patch); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}

	record, err := x.Store.UpdateClass(c.UserContext(), owner, id, patch)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.JSON(record)
}

func (x *Controller) DeleteClass(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	id, err := resourceID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	if err := x.Store.DeleteClass(c.UserContext(), owner, id); err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (x *Controller) ListTasks(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	items, err := x.Store.ListTasks(c.UserContext(), owner)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.JSON(items)
}

func (x *Controller) CreateTask(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	payload := TaskRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}
	if err := payload.Validate(); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}

	record, err := x.Store.CreateTask(c.UserContext(), owner, &Task{
		Subject:  payload.Subject,
		Topic:    payload.Topic,
		Priority: payload.Priority,
		Deadline: payload.Deadline,
	})
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

func (x *Controller) UpdateTask(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	id, err := resourceID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	patch := TaskPatch{}
	if err := c.BodyParser(&patch); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}

	record, err := x.Store.UpdateTask(c.UserContext(), owner, id, patch)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.JSON(record)
}

func (x *Controller) DeleteTask(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	id, err := resourceID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	if err := x.Store.DeleteTask(c.UserContext(), owner, id); err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (x *Controller) ListTransactions(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	items, err := x.Store.ListTransactions(c.UserContext(), owner)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.JSON(items)
}

func (x *Controller) CreateTransaction(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	payload := TransactionRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}
	if err := payload.Validate(); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}

	record := &Transaction{
		Type:     payload.Type,
		Amount:   payload.Amount,
		Category: payload.Category,
		Note:     payload.Note,
	}
	if payload.Date != nil {
		record.Date = *payload.Date
	}

	record, err = x.Store.CreateTransaction(c.UserContext(), owner, record)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

func (x *Controller) UpdateTransaction(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	id, err := resourceID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	patch := TransactionPatch{}
	if err := c.BodyParser(&patch); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}
	if err := patch.Validate(); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}

	record, err := x.Store.UpdateTransaction(c.UserContext(), owner, id, patch)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.JSON(record)
}

func (x *Controller) DeleteTransaction(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	id, err := resourceID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	if err := x.Store.DeleteTransaction(c.UserContext(), owner, id); err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (x *Controller) MonthSummary(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	summary, err := x.Store.MonthSummary(c.UserContext(), owner)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.JSON(summary)
}

var clockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ownerID resolves the owning identity attached by the session gate.
func ownerID(c *fiber.Ctx) (uuid.UUID, error) {
	user, ok := zenith.FromContext(c.UserContext())
	if !ok || user == nil {
		return uuid.Nil, errors.New("Session required", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode("UNAUTHORIZED")
	}
	return user.ID, nil
}

func resourceID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errors.Wrap(err, errors.CategoryBadInput, "Invalid resource id").
			WithCode(errors.CodeBadRequest).
			WithTextCode("BAD_REQUEST")
	}
	return id, nil
}

func invalidPayload(err error) error {
	return errors.Wrap(err, errors.CategoryValidation, "Invalid request payload").
		WithCode(errors.CodeBadRequest).
		WithTextCode("INVALID_PAYLOAD")
}
