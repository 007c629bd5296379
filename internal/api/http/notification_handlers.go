package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	auth "github.com/bisugen/papergen/internal/auth/middleware"
	"github.com/bisugen/papergen/internal/rbac"
)

type notificationRow struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	EventDate string `json:"eventDate"`
	CreatedAt int64  `json:"created_at"`
}

// CreateNotificationHandler posts an announcement for the admin's students.
func CreateNotificationHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID := auth.SubjectFromContext(r.Context())
		if adminID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req struct {
			Content   string `json:"content"`
			EventDate string `json:"eventDate"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Content == "" {
			http.Error(w, "content required", http.StatusBadRequest)
			return
		}
		if req.EventDate == "" {
			http.Error(w, "eventDate required", http.StatusBadRequest)
			return
		}
		// accept full timestamps; store only the date part
		day := strings.SplitN(req.EventDate, "T", 2)[0]
		if _, err := time.Parse("2006-01-02", day); err != nil {
			http.Error(w, "invalid event date", http.StatusBadRequest)
			return
		}

		id := uuid.NewString()
		now := time.Now().Unix()
		_, err := db.ExecContext(r.Context(),
			`INSERT INTO notifications (id,user_id,content,event_date,created_at)
			 VALUES ($1,$2,$3,$4,$5)`,
			id, adminID, req.Content, day, now)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(notificationRow{
			ID: id, Content: req.Content, EventDate: day, CreatedAt: now,
		})
	}
}

// ListNotificationsHandler returns the organization's announcements. For a
// student token the organization is the admin the student belongs to.
func ListNotificationsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := auth.SubjectFromContext(r.Context())
		if rbac.RoleFromContext(r.Context()) == rbac.RoleStudent {
			ownerID = auth.AdminIDFromContext(r.Context())
		}
		if ownerID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rows, err := db.QueryContext(r.Context(),
			`SELECT id,content,event_date,created_at FROM notifications
			 WHERE user_id=$1 ORDER BY event_date DESC, created_at DESC`, ownerID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		out := []notificationRow{}
		for rows.Next() {
			var n notificationRow
			if err := rows.Scan(&n.ID, &n.Content, &n.EventDate, &n.CreatedAt); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			out = append(out, n)
		}
		if err := rows.Err(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
