package handlers

import (
	"net/http"
	"time"

	"teamTracker/internal/logger"

	"go.uber.org/zap"
)

// MemberHandler - граница с внешним контекстом управления участниками:
// единственная операция - каскадное удаление задач удалённого участника.
type MemberHandler struct {
	CascadeService CascadeService
}

func NewMemberHandler(cascadeService CascadeService) MemberHandler {
	return MemberHandler{
		CascadeService: cascadeService,
	}
}

func (h *MemberHandler) DeleteMemberTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := taskIDFromURL(w, r)
	if !ok {
		return
	}

	logger.Info("HTTP: Вызов каскадного удаления участника")
	if err := h.CascadeService.RemoveMember(r.Context(), id); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "remove_member"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задачи участника удалены",
		zap.String("member_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}
