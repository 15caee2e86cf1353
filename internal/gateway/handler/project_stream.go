package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"redactify/internal/staging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// CORS policy is enforced by the middleware; the upgrade accepts any
	// origin the middleware let through.
	CheckOrigin: func(*http.Request) bool { return true },
}

// projectStreamInit is the optional first client message. It carries the
// extracted text per document id; documents without an entry are staged
// against an empty context.
type projectStreamInit struct {
	Contexts map[string]string `json:"contexts"`
}

const wsWriteTimeout = 10 * time.Second

// HandleStageProjectStream runs the project-wide staging pipeline over a
// websocket, one JSON event per message.
// GET /v1/projects/{project_id}/staging/ws
func (h *Handler) HandleStageProjectStream(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(r.PathValue("project_id"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	defer conn.Close()

	var init projectStreamInit
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&init); err != nil {
		// No init message; proceed with empty contexts.
		init.Contexts = nil
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	// Reads after init only serve to detect the peer going away.
	go func() {
		conn.SetReadDeadline(time.Time{})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	listDocs := func(ctx context.Context, projectID string) ([]staging.ProjectDocument, error) {
		rows, err := h.docs.ListByProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		docs := make([]staging.ProjectDocument, 0, len(rows))
		for _, row := range rows {
			docs = append(docs, staging.ProjectDocument{
				ID:      row.ID,
				Name:    row.Name,
				Context: init.Contexts[row.ID],
			})
		}
		return docs, nil
	}
	listRules := func(ctx context.Context, documentID string) ([]string, error) {
		rules, err := h.rules.ListApproved(ctx, documentID)
		if err != nil {
			return nil, err
		}
		texts := make([]string, 0, len(rules))
		for _, rule := range rules {
			texts = append(texts, rule.Text)
		}
		return texts, nil
	}

	h.stager.StageProject(ctx, projectID, listDocs, listRules, func(ev staging.Event) {
		if ctx.Err() != nil {
			return
		}
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			cancel()
		}
	})

	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
