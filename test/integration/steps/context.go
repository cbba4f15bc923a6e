// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	"github.com/spendwise/backend/config"
	"github.com/spendwise/backend/internal/infra/dependency"
	"github.com/spendwise/backend/internal/integration/persistence/model"
	"github.com/spendwise/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	uri      string
	client   *http.Client
	response *response

	// Request building
	headers map[string]string

	// Auth
	accessToken string

	// Collaborators
	db        *mock.Db
	redis     *mock.Redis
	generator *fakeGenerator
}

type response struct {
	status int
	body   []byte
}

// fakeGenerator stands in for the LLM. Its reply is set per scenario.
type fakeGenerator struct {
	mu        sync.Mutex
	reply     string
	err       error
	available bool
	prompts   []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func (g *fakeGenerator) IsAvailable() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.available
}

func (g *fakeGenerator) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reply = "Spend less on takeout."
	g.err = nil
	g.available = true
	g.prompts = nil
}

func (g *fakeGenerator) lastPrompt() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return "", false
	}
	return g.prompts[len(g.prompts)-1], true
}

var (
	serverOnce sync.Once
	serverURL  string
	serverErr  error
	generator  = &fakeGenerator{}
)

// startServer wires the real application against the in-memory mocks. The
// server is shared by every scenario; state is reset in the Before hook.
func startServer(db *mock.Db, redis *mock.Redis) (string, error) {
	serverOnce.Do(func() {
		gin.SetMode(gin.TestMode)

		cfg := config.Load()
		cfg.Server.Environment = "test"
		cfg.JWT.Secret = testJWTSecret
		cfg.JWT.Expiry = time.Hour
		cfg.Aggregation.Timezone = "UTC"
		cfg.Aggregation.CurrencySymbol = "₹"
		cfg.Redis.SummaryTTL = time.Minute
		cfg.Gemini.MaxConcurrency = 4

		injector, err := dependency.NewInjector(cfg, db.DbConn, dependency.Options{
			Redis:     redis.Client,
			Generator: generator,
		})
		if err != nil {
			serverErr = err
			return
		}

		server := httptest.NewServer(injector.Router.Setup(cfg.Server.Environment))
		serverURL = server.URL
	})
	return serverURL, serverErr
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &TestContext{
		client: &http.Client{Timeout: 10 * time.Second},
		db: mock.NewDb(
			mock.Table{Name: "users", Model: &model.UserModel{}},
			mock.Table{Name: "expenses", Model: &model.ExpenseModel{}},
		),
		redis:     mock.NewRedis(),
		generator: generator,
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, tc.theAPIServerIsRunning)

	// User setup steps
	ctx.Given(`^a user exists with email "([^"]*)" and password "([^"]*)"$`, tc.aUserExistsWithEmailAndPassword)
	ctx.Given(`^I am logged in as "([^"]*)" with password "([^"]*)"$`, tc.iAmLoggedInAs)
	ctx.Given(`^I have recorded the expenses:$`, tc.iHaveRecordedTheExpenses)

	// Collaborator steps
	ctx.Given(`^the advice generator replies "([^"]*)"$`, tc.theAdviceGeneratorReplies)
	ctx.Given(`^the advice generator replies with nothing$`, tc.theAdviceGeneratorRepliesWithNothing)
	ctx.Given(`^the advice generator fails with "([^"]*)"$`, tc.theAdviceGeneratorFailsWith)
	ctx.Given(`^the advice generator is not configured$`, tc.theAdviceGeneratorIsNotConfigured)
	ctx.Given(`^the summary cache goes down$`, tc.theSummaryCacheGoesDown)

	// Header steps
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, tc.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, tc.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, tc.iSendARequestToWithBody)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, tc.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, tc.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, tc.theResponseFieldShouldExist)
	ctx.Then(`^the response should be a list of (\d+) items$`, tc.theResponseShouldBeAListOfItems)

	// Collaborator assertion steps
	ctx.Then(`^the advice generator should not have been called$`, tc.theAdviceGeneratorShouldNotHaveBeenCalled)
	ctx.Then(`^the advice prompt should contain "([^"]*)"$`, tc.theAdvicePromptShouldContain)
	ctx.Then(`^the summary cache should hold (\d+) history entr(?:y|ies)$`, tc.theSummaryCacheShouldHoldEntries)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, tc.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, tc.theDbShouldContainObjectsInWithTheValues)
}

func (t *TestContext) before() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.response = nil
	t.generator.reset()

	if err := t.redis.Reset(); err != nil {
		return fmt.Errorf("failed to reset redis: %w", err)
	}
	return t.db.ClearDB()
}

func (t *TestContext) theAPIServerIsRunning() error {
	uri, err := startServer(t.db, t.redis)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	t.uri = uri

	resp, err := t.client.Get(t.uri + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New("server is not healthy")
	}
	return nil
}
