package middleware

import (
	"context"
	"net/http"

	"github.com/clinicbot-ai/scheduling-service/internal/api/handlers"
)

type contextKey string

const staffIDKey contextKey = "staffID"

// HeaderStaffID заголовок аутентификации административных операций
const HeaderStaffID = "X-Staff-ID"

// Auth проверяет наличие заголовка X-Staff-ID и кладет его значение в контекст.
// Проверка подлинности — ответственность API-шлюза перед сервисом.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staffID := r.Header.Get(HeaderStaffID)
		if staffID == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок X-Staff-ID")
			return
		}

		ctx := context.WithValue(r.Context(), staffIDKey, staffID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetStaffID возвращает идентификатор сотрудника из контекста
func GetStaffID(ctx context.Context) (string, bool) {
	staffID, ok := ctx.Value(staffIDKey).(string)
	return staffID, ok
}
