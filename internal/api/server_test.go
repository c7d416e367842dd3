package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harlow-digital/atelier/internal/auth"
	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/repository"
	"github.com/harlow-digital/atelier/internal/service"
	"github.com/harlow-digital/atelier/internal/testutil"
)

var testSecret = []byte("api-test-secret")

// apiEnv is a fully wired server over an in-memory database, plus the
// repositories tests use to seed data directly.
type apiEnv struct {
	srv       *httptest.Server
	users     repository.UserRepo
	clients   repository.ClientRepo
	intakes   repository.IntakeRepo
	proposals repository.ProposalRepo
	projects  repository.ProjectRepo
	tasks     repository.TaskRepo
	invoices  repository.InvoiceRepo
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	users := repository.NewSQLiteUserRepo(database)
	clients := repository.NewSQLiteClientRepo(database)
	intakes := repository.NewSQLiteIntakeRepo(database)
	proposals := repository.NewSQLiteProposalRepo(database)
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	invoices := repository.NewSQLiteInvoiceRepo(database)
	events := repository.NewSQLiteEventRepo(database)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewServer(logger, auth.NewResolver(testSecret, users, clients), Services{
		Intakes:   service.NewIntakeService(intakes, clients, uow),
		Proposals: service.NewProposalService(proposals, intakes, uow, service.NoopUseCaseObserver{}),
		Projects:  service.NewProjectService(projects, uow),
		Tasks:     service.NewTaskService(tasks, projects, uow, service.NoopUseCaseObserver{}),
		Invoices:  service.NewInvoiceService(invoices, projects, uow),
		Clients:   service.NewClientService(clients),
		Activity:  service.NewActivityService(events, projects),
	})

	srv := httptest.NewServer(server.Router())
	t.Cleanup(srv.Close)

	return &apiEnv{
		srv:       srv,
		users:     users,
		clients:   clients,
		intakes:   intakes,
		proposals: proposals,
		projects:  projects,
		tasks:     tasks,
		invoices:  invoices,
	}
}

// seedLogin creates a user with the given role and mints a token for it.
// Client-role users also get a client record.
func (e *apiEnv) seedLogin(t *testing.T, role domain.Role) (string, string) {
	t.Helper()
	ctx := context.Background()

	user := testutil.NewTestUser("API User", testutil.WithRole(role))
	require.NoError(t, e.users.Create(ctx, user))

	if role == domain.RoleClient {
		client := testutil.NewTestClient("Acme", testutil.WithClientUserID(user.ID))
		require.NoError(t, e.clients.Create(ctx, client))
	}

	token, err := auth.Mint(testSecret, user.ID, time.Hour)
	require.NoError(t, err)
	return user.ID, token
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthzIsPublic(t *testing.T) {
	env := newAPIEnv(t)
	resp := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPIRejectsMissingOrBadToken(t *testing.T) {
	env := newAPIEnv(t)

	resp := env.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A well-formed token for a deleted user is also rejected.
	orphan, err := auth.Mint(testSecret, "no-such-user", time.Hour)
	require.NoError(t, err)
	resp = env.do(t, http.MethodGet, "/api/me", orphan, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMeReturnsResolvedActor(t *testing.T) {
	env := newAPIEnv(t)
	userID, token := env.seedLogin(t, domain.RoleClient)

	resp := env.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeInto(t, resp, &body)
	assert.Equal(t, userID, body["id"])
	assert.Equal(t, string(domain.RoleClient), body["role"])
	assert.NotEmpty(t, body["clientId"])
}

func TestSubmitIntakeOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	_, token := env.seedLogin(t, domain.RoleClient)

	resp := env.do(t, http.MethodPost, "/api/intakes", token, map[string]any{
		"summary":  "New marketing site",
		"priority": "HIGH",
		"formData": map[string]any{"budget": "10-20k"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	decodeInto(t, resp, &body)
	assert.Equal(t, "REVIEW_PENDING", body["status"])
	assert.Equal(t, "New marketing site", body["summary"])
	assert.NotEmpty(t, body["clientId"])
}

func TestUnknownJSONFieldIsBadRequest(t *testing.T) {
	env := newAPIEnv(t)
	_, token := env.seedLogin(t, domain.RoleAdmin)

	resp := env.do(t, http.MethodPost, "/api/intakes", token, map[string]any{
		"summary": "typo below",
		"sumary2": true,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeInto(t, resp, &body)
	assert.Equal(t, "body", body["field"])
}

func TestClientCannotUpdateTask(t *testing.T) {
	env := newAPIEnv(t)
	ctx := context.Background()
	_, clientToken := env.seedLogin(t, domain.RoleClient)

	client, err := env.clients.List(ctx)
	require.NoError(t, err)
	require.Len(t, client, 1)

	project := testutil.NewTestProject("Brand refresh", client[0].ID)
	require.NoError(t, env.projects.Create(ctx, project))
	task := testutil.NewTestTask(project.ID, "Collect brand assets")
	require.NoError(t, env.tasks.Create(ctx, task))

	resp := env.do(t, http.MethodPatch, "/api/tasks/"+task.ID, clientToken, map[string]any{
		"status": "IN_PROGRESS",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The same client may still read the task.
	resp = env.do(t, http.MethodGet, "/api/tasks/"+task.ID, clientToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProposalRespondFlowOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	ctx := context.Background()
	_, adminToken := env.seedLogin(t, domain.RoleAdmin)
	_, clientToken := env.seedLogin(t, domain.RoleClient)

	clients, err := env.clients.List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)

	intake := testutil.NewTestIntake(clients[0].ID,
		testutil.WithIntakeStatus(domain.IntakeApprovedForEstimate))
	require.NoError(t, env.intakes.Create(ctx, intake))
	proposal := testutil.NewTestProposal(intake.ID,
		testutil.WithProposalStatus(domain.ProposalClientApprovalPending))
	require.NoError(t, env.proposals.Create(ctx, proposal))

	// Staff cannot respond on the client's behalf.
	resp := env.do(t, http.MethodPost, "/api/proposals/"+proposal.ID+"/respond", adminToken, map[string]any{
		"action": "approve",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Declining without a comment is a bad request.
	resp = env.do(t, http.MethodPost, "/api/proposals/"+proposal.ID+"/respond", clientToken, map[string]any{
		"action": "decline",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/proposals/"+proposal.ID+"/respond", clientToken, map[string]any{
		"action": "approve",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeInto(t, resp, &body)
	assert.Equal(t, "APPROVED", body["status"])
	projectID, _ := body["projectId"].(string)
	require.NotEmpty(t, projectID)

	// The composed project is visible to the owning client.
	resp = env.do(t, http.MethodGet, "/api/projects/"+projectID, clientToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var projectBody map[string]any
	decodeInto(t, resp, &projectBody)
	assert.Equal(t, "KICKOFF", projectBody["workflowPhase"])

	// And its onboarding tasks ride along.
	resp = env.do(t, http.MethodGet, "/api/projects/"+projectID+"/tasks", clientToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var taskList []map[string]any
	decodeInto(t, resp, &taskList)
	assert.NotEmpty(t, taskList)
}

func TestTaskDatesUseCalendarFormat(t *testing.T) {
	env := newAPIEnv(t)
	ctx := context.Background()
	_, adminToken := env.seedLogin(t, domain.RoleAdmin)

	user := testutil.NewTestUser("Client", testutil.WithRole(domain.RoleClient))
	require.NoError(t, env.users.Create(ctx, user))
	client := testutil.NewTestClient("Acme", testutil.WithClientUserID(user.ID))
	require.NoError(t, env.clients.Create(ctx, client))
	project := testutil.NewTestProject("Brand refresh", client.ID)
	require.NoError(t, env.projects.Create(ctx, project))

	resp := env.do(t, http.MethodPost, "/api/tasks", adminToken, map[string]any{
		"projectId": project.ID,
		"title":     "Collect brand assets",
		"dueDate":   "2026-10-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	decodeInto(t, resp, &body)
	assert.Equal(t, "2026-10-01", body["dueDate"])

	resp = env.do(t, http.MethodPost, "/api/tasks", adminToken, map[string]any{
		"projectId": project.ID,
		"title":     "Bad date",
		"dueDate":   "October 1st",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteInvoiceReturnsNoContent(t *testing.T) {
	env := newAPIEnv(t)
	ctx := context.Background()
	_, adminToken := env.seedLogin(t, domain.RoleAdmin)

	user := testutil.NewTestUser("Client", testutil.WithRole(domain.RoleClient))
	require.NoError(t, env.users.Create(ctx, user))
	client := testutil.NewTestClient("Acme", testutil.WithClientUserID(user.ID))
	require.NoError(t, env.clients.Create(ctx, client))
	project := testutil.NewTestProject("Brand refresh", client.ID)
	require.NoError(t, env.projects.Create(ctx, project))
	invoice := testutil.NewTestInvoice(project.ID)
	require.NoError(t, env.invoices.Create(ctx, invoice))

	resp := env.do(t, http.MethodDelete, "/api/invoices/"+invoice.ID, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/invoices/"+invoice.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMissingResourceIs404(t *testing.T) {
	env := newAPIEnv(t)
	_, token := env.seedLogin(t, domain.RoleAdmin)

	resp := env.do(t, http.MethodGet, "/api/proposals/no-such-id", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
