package assist

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	zenith "github.com/zenith-app/zenith-api"
	"github.com/zenith-app/zenith-api/tracker"
)

// Controller mounts the assist routes. The heuristic endpoints read the
// caller's tracker data through the store; the generative endpoints go
// through the configured TextGenerator.
type Controller struct {
	Store     *tracker.Store
	Generator TextGenerator
	Logger    zenith.Logger

	now func() time.Time
}

type ControllerOption func(*Controller)

func WithStore(store *tracker.Store) ControllerOption {
	return func(c *Controller) {
		c.Store = store
	}
}

func WithGenerator(gen TextGenerator) ControllerOption {
	return func(c *Controller) {
		c.Generator = gen
	}
}

func WithLogger(logger zenith.Logger) ControllerOption {
	return func(c *Controller) {
		c.Logger = logger
	}
}

func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Store == nil {
		panic("assist controller requires a tracker store")
	}
	return c
}

// RegisterRoutes mounts the assist endpoints under the given router, each
// wrapped with the session gate.
func RegisterRoutes(api fiber.Router, controller *Controller, gate fiber.Handler) {
	ai := api.Group("/ai", gate)
	ai.Get("/study-recommendations", controller.StudyRecommendations)
	ai.Post("/optimize-schedule", controller.OptimizeSchedule)
	ai.Get("/budget-insights", controller.BudgetInsights)
	ai.Post("/prioritize-tasks", controller.PrioritizeTasks)
	ai.Post("/chat", controller.Chat)
	ai.Post("/flashcards", controller.Flashcards)
	ai.Post("/quiz", controller.Quiz)
	ai.Post("/mindmap", controller.MindMap)

	qa := api.Group("/qa", gate)
	qa.Post("/generate", controller.GenerateQuestions)
}

func (x *Controller) StudyRecommendations(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	tasks, err := x.Store.CompletedTasks(c.UserContext(), owner, 50)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	classes, err := x.Store.ListClasses(c.UserContext(), owner)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	return c.JSON(fiber.Map{
		"recommendations": StudyRecommendations(tasks, classes, x.now()),
	})
}

// ScheduleRequest carries the tasks to slot around the stored classes.
type ScheduleRequest struct {
	Tasks []TaskInput `json:"tasks"`
}

func (x *Controller) OptimizeSchedule(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	payload := ScheduleRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}

	classes, err := x.Store.ListClasses(c.UserContext(), owner)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	return c.JSON(OptimizeSchedule(payload.Tasks, classes, x.now()))
}

func (x *Controller) BudgetInsights(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	now := x.now()
	month := queryInt(c, "month", int(now.Month()))
	year := queryInt(c, "year", now.Year())

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	transactions, err := x.Store.TransactionsInRange(c.UserContext(), owner, from, to)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	return c.JSON(BudgetInsights(transactions))
}

// PrioritizeRequest carries the tasks to score.
type PrioritizeRequest struct {
	Tasks []TaskInput `json:"tasks"`
}

func (x *Controller) PrioritizeTasks(c *fiber.Ctx) error {
	if _, err := ownerID(c); err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	payload := PrioritizeRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}

	return c.JSON(PrioritizeTasks(payload.Tasks, x.now()))
}

// ChatRequest carries one study-buddy message.
type ChatRequest struct {
	Message string `json:"message"`
}

func (x *Controller) Chat(c *fiber.Ctx) error {
	if _, err := ownerID(c); err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	payload := ChatRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}

	return c.JSON(Chat(c.UserContext(), x.Generator, payload.Message))
}

// GenerateRequest is the shared payload for the content generators.
type GenerateRequest struct {
	Topic      string   `json:"topic"`
	Text       string   `json:"text"`
	Count      int      `json:"count"`
	Difficulty string   `json:"difficulty"`
	Types      []string `json:"types"`
}

func (r *GenerateRequest) defaults(count int) {
	if r.Count <= 0 {
		r.Count = count
	}
	if r.Difficulty == "" {
		r.Difficulty = "medium"
	}
}

func (x *Controller) Flashcards(c *fiber.Ctx) error {
	if _, err := ownerID(c); err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	payload := GenerateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}
	payload.defaults(8)

	cards, err := GenerateFlashcards(c.UserContext(), x.Generator, payload.Topic, payload.Text, payload.Count, payload.Difficulty)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.JSON(fiber.Map{"flashcards": cards})
}

func (x *Controller) Quiz(c *fiber.Ctx) error {
	if _, err := ownerID(c); err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	payload := GenerateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}
	payload.defaults(6)

	quiz, err := GenerateQuiz(c.UserContext(), x.Generator, payload.Topic, payload.Text, payload.Count, payload.Difficulty)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.JSON(fiber.Map{"quiz": quiz})
}

func (x *Controller) MindMap(c *fiber.Ctx) error {
	if _, err := ownerID(c); err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	payload := GenerateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}
	payload.defaults(6)

	mindmap, err := GenerateMindMap(c.UserContext(), x.Generator, payload.Topic, payload.Text, payload.Count, payload.Difficulty)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.JSON(fiber.Map{"mindmap": mindmap})
}

func (x *Controller) GenerateQuestions(c *fiber.Ctx) error {
	if _, err := ownerID(c); err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}

	payload := GenerateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return zenith.WriteError(c, x.Logger, invalidPayload(err))
	}
	if payload.Count <= 0 {
		payload.Count = 5
	}
	if payload.Difficulty == "" {
		payload.Difficulty = "easy"
	}

	questions, err := GenerateExamQuestions(c.UserContext(), x.Generator, payload.Difficulty, payload.Count, payload.Types, payload.Topic)
	if err != nil {
		return zenith.WriteError(c, x.Logger, err)
	}
	return c.JSON(fiber.Map{"questions": questions})
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func ownerID(c *fiber.Ctx) (uuid.UUID, error) {
	user, ok := zenith.FromContext(c.UserContext())
	if !ok || user == nil {
		return uuid.Nil, errors.New("Session required", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode("UNAUTHORIZED")
	}
	return user.ID, nil
}

func invalidPayload(err error) error {
	return errors.Wrap(err, errors.CategoryValidation, "Invalid request payload").
		WithCode(errors.CodeBadRequest).
		WithTextCode("INVALID_PAYLOAD")
}
