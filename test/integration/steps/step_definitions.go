package steps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spendwise/backend/internal/integration/persistence/model"
)

func (t *TestContext) aUserExistsWithEmailAndPassword(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.UserModel{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	return t.db.DbConn.Create(user).Error
}

func (t *TestContext) iAmLoggedInAs(email, password string) error {
	body := fmt.Sprintf(`{"email": %q, "password": %q}`, email, password)
	if err := t.send(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body)); err != nil {
		return err
	}
	if t.response.status != http.StatusOK {
		return fmt.Errorf("login failed with status %d: %s", t.response.status, t.response.body)
	}

	var auth struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(t.response.body, &auth); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}
	t.accessToken = auth.Token
	return nil
}

// iHaveRecordedTheExpenses posts one expense per row. Columns: amount,
// category and an optional date.
func (t *TestContext) iHaveRecordedTheExpenses(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return errors.New("expense table needs a header and at least one row")
	}

	header := table.Rows[0].Cells
	for _, row := range table.Rows[1:] {
		payload := map[string]any{}
		for i, cell := range row.Cells {
			payload[header[i].Value] = cell.Value
		}

		raw, _ := json.Marshal(payload)
		if err := t.send(http.MethodPost, "/api/v1/expenses", bytes.NewReader(raw)); err != nil {
			return err
		}
		if t.response.status != http.StatusCreated {
			return fmt.Errorf("failed to record %v: %d %s", payload, t.response.status, t.response.body)
		}
	}
	return nil
}

func (t *TestContext) theAdviceGeneratorReplies(reply string) error {
	t.generator.mu.Lock()
	defer t.generator.mu.Unlock()
	t.generator.reply = reply
	return nil
}

func (t *TestContext) theAdviceGeneratorRepliesWithNothing() error {
	return t.theAdviceGeneratorReplies("   ")
}

func (t *TestContext) theAdviceGeneratorFailsWith(message string) error {
	t.generator.mu.Lock()
	defer t.generator.mu.Unlock()
	t.generator.err = errors.New(message)
	return nil
}

func (t *TestContext) theAdviceGeneratorIsNotConfigured() error {
	t.generator.mu.Lock()
	defer t.generator.mu.Unlock()
	t.generator.available = false
	return nil
}

func (t *TestContext) theSummaryCacheGoesDown() error {
	t.redis.Stop()
	return nil
}

func (t *TestContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *TestContext) iSendARequestTo(method, endpoint string) error {
	return t.send(method, endpoint, nil)
}

func (t *TestContext) iSendARequestToWithBody(method, endpoint string, body *godog.DocString) error {
	return t.send(method, endpoint, strings.NewReader(body.Content))
}

func (t *TestContext) send(method, endpoint string, body io.Reader) error {
	req, err := http.NewRequest(method, t.uri+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	t.response = &response{status: resp.StatusCode, body: raw}
	return nil
}

func (t *TestContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *TestContext) theResponseShouldBeJSON() error {
	var js json.RawMessage
	if err := json.Unmarshal(t.response.body, &js); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	return nil
}

func (t *TestContext) theResponseShouldContain(expected string) error {
	if !strings.Contains(string(t.response.body), expected) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, t.response.body)
	}
	return nil
}

// theResponseFieldShouldBe resolves dotted paths; numeric segments index
// into arrays, e.g. "0.category" or "categoryTotals.Food".
func (t *TestContext) theResponseFieldShouldBe(field, expected string) error {
	value, err := t.lookup(field)
	if err != nil {
		return err
	}

	actual := fmt.Sprintf("%v", value)
	if actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func (t *TestContext) theResponseFieldShouldExist(field string) error {
	_, err := t.lookup(field)
	return err
}

func (t *TestContext) theResponseShouldBeAListOfItems(count int) error {
	var items []any
	if err := json.Unmarshal(t.response.body, &items); err != nil {
		return fmt.Errorf("response is not a JSON array: %w", err)
	}
	if len(items) != count {
		return fmt.Errorf("expected %d items, got %d", count, len(items))
	}
	return nil
}

func (t *TestContext) lookup(path string) (any, error) {
	var data any
	if err := json.Unmarshal(t.response.body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	current := data
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[segment]
			if !ok {
				return nil, fmt.Errorf("field '%s' not found in response", path)
			}
			current = value
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return nil, fmt.Errorf("index '%s' out of range in '%s'", segment, path)
			}
			current = node[index]
		default:
			return nil, fmt.Errorf("field '%s' not found in response", path)
		}
	}
	return current, nil
}

func (t *TestContext) theAdviceGeneratorShouldNotHaveBeenCalled() error {
	if prompt, called := t.generator.lastPrompt(); called {
		return fmt.Errorf("expected no generator call, got prompt %q", prompt)
	}
	return nil
}

func (t *TestContext) theAdvicePromptShouldContain(expected string) error {
	prompt, called := t.generator.lastPrompt()
	if !called {
		return errors.New("advice generator was not called")
	}
	if !strings.Contains(prompt, expected) {
		return fmt.Errorf("prompt does not contain %q:\n%s", expected, prompt)
	}
	return nil
}

func (t *TestContext) theSummaryCacheShouldHoldEntries(count int) error {
	keys := t.redis.Keys("summary:history:")
	if len(keys) != count {
		return fmt.Errorf("expected %d history entries, got %d: %v", count, len(keys), keys)
	}
	return nil
}

func (t *TestContext) theDbShouldContainObjectsInTheTable(count int, table string) error {
	actual, err := t.db.Count(table, nil)
	if err != nil {
		return err
	}
	if actual != int64(count) {
		return fmt.Errorf("expected %d rows in %s, got %d", count, table, actual)
	}
	return nil
}

// theDbShouldContainObjectsInWithTheValues matches rows on every column of
// the first table row; the remaining rows hold values.
func (t *TestContext) theDbShouldContainObjectsInWithTheValues(count int, table string, values *godog.Table) error {
	if len(values.Rows) < 2 {
		return errors.New("values table needs a header and at least one row")
	}

	header := values.Rows[0].Cells
	for _, row := range values.Rows[1:] {
		where := map[string]any{}
		for i, cell := range row.Cells {
			where[header[i].Value] = cell.Value
		}

		actual, err := t.db.Count(table, where)
		if err != nil {
			return err
		}
		if actual != int64(count) {
			return fmt.Errorf("expected %d rows in %s matching %v, got %d", count, table, where, actual)
		}
	}
	return nil
}
