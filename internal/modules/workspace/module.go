package workspace

import (
	"github.com/jmoiron/sqlx"

	notification "github.com/Knaifu0030/task-nexus/internal/modules/notification/application"
	"github.com/Knaifu0030/task-nexus/internal/modules/workspace/application"
	"github.com/Knaifu0030/task-nexus/internal/modules/workspace/infrastructure/persistence/postgres"
	workspace_http "github.com/Knaifu0030/task-nexus/internal/modules/workspace/interfaces/http"
)

type Module struct {
	service *application.WorkspaceService
	handler *workspace_http.WorkspaceHandler
}

func NewModule(db *sqlx.DB, triggers *notification.TriggerService) *Module {
	repo := postgres.NewPgWorkspaceRepository(db)
	service := application.NewWorkspaceService(repo, triggers)
	handler := workspace_http.NewWorkspaceHandler(service)

	return &Module{service: service, handler: handler}
}

func (m *Module) HTTPHandler() *workspace_http.WorkspaceHandler {
	return m.handler
}

func (m *Module) Service() *application.WorkspaceService {
	return m.service
}
