package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/studyplan/internal/app"
	"github.com/example/studyplan/internal/domain"
	"github.com/example/studyplan/internal/policy"
	"github.com/example/studyplan/internal/schedule"
	"github.com/example/studyplan/internal/snapshot"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Server holds the dependencies for the HTTP server.
type Server struct {
	svc       *app.Service
	router    *http.ServeMux
	templates *template.Template
}

// NewServer creates and configures a new server.
func NewServer(svc *app.Service) *Server {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	s := &Server{
		svc:       svc,
		router:    http.NewServeMux(),
		templates: tpl,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatalf("Failed to create sub-filesystem for static assets: %v", err)
	}
	s.router.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.HandleFunc("/", s.handleDashboard)
	s.router.HandleFunc("/subjects", s.handleSubjects)
	s.router.HandleFunc("/subjects/rename", s.handleRenameSubject)
	s.router.HandleFunc("/subjects/delete", s.handleDeleteSubject)
	s.router.HandleFunc("/lectures", s.handleAddLecture)
	s.router.HandleFunc("/lectures/edit", s.handleEditLecture)
	s.router.HandleFunc("/lectures/delete", s.handleDeleteLecture)
	s.router.HandleFunc("/reviews/complete", s.handleCompleteReview)
	s.router.HandleFunc("/reviews/date", s.handleEditReviewDate)
	s.router.HandleFunc("/tasks", s.handleAddTask)
	s.router.HandleFunc("/tasks/toggle", s.handleToggleTask)
	s.router.HandleFunc("/tasks/delete", s.handleDeleteTask)
	s.router.HandleFunc("/settings", s.handleSettings)
	s.router.HandleFunc("/export/calendar.ics", s.handleExportICS)
	s.router.HandleFunc("/export/data.json", s.handleExportData)
	s.router.HandleFunc("/import", s.handleImportData)
}

type reviewRow struct {
	ID         string
	Subject    string
	Lecture    string
	TargetDate string
	CycleLabel string
	Overdue    bool
	Completable bool
}

func (s *Server) reviewRows(st domain.State, reviews []domain.Review, today domain.Date) []reviewRow {
	labels := policy.CycleLabels(len(policy.Active(st.CustomReviewIntervals)))
	rows := make([]reviewRow, 0, len(reviews))
	for _, r := range reviews {
		row := reviewRow{
			ID:          r.ID,
			Subject:     "-",
			Lecture:     "-",
			TargetDate:  r.TargetDate.String(),
			Overdue:     r.TargetDate.Before(today),
			Completable: !r.TargetDate.IsZero() && !r.TargetDate.After(today),
		}
		if sub, ok := st.SubjectByID(r.SubjectID); ok {
			row.Subject = sub.Name
		}
		if lec, ok := st.LectureByID(r.LectureID); ok {
			row.Lecture = lec.Name
		}
		if r.IntervalCycleIndex < len(labels) {
			row.CycleLabel = labels[r.IntervalCycleIndex]
		}
		rows = append(rows, row)
	}
	return rows
}

// handleDashboard renders stats, today's agenda and the overdue backlog.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	st, err := s.svc.State()
	if err != nil {
		s.internalError(w, "loading state for dashboard", err)
		return
	}
	today := s.svc.Today()
	weekFrom, weekTo := schedule.WeekBounds(today)

	data := map[string]interface{}{
		"Today":     today.String(),
		"Stats":     schedule.Summarise(st, today),
		"Streak":    st.Streak(),
		"Agenda":    schedule.ItemsOn(st, today),
		"Overdue":   s.reviewRows(st, schedule.Overdue(st.Reviews, today), today),
		"ThisWeek":  s.reviewRows(st, schedule.Window(st.Reviews, weekFrom, weekTo), today),
	}
	s.render(w, "dashboard", data)
}

// handleSubjects handles both GET and POST for the subjects page.
func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderSubjects(w)
	case http.MethodPost:
		name := r.PostFormValue("name")
		if _, err := s.svc.AddSubject(name); err != nil {
			s.internalError(w, "adding subject", err)
			return
		}
		http.Redirect(w, r, "/subjects", http.StatusSeeOther)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type lectureRow struct {
	ID             string
	Name           string
	FirstStudyDate string
	Cycles         int
	NextReview     string
	Notes          string
}

type subjectRow struct {
	ID       string
	Name     string
	Lectures []lectureRow
}

func (s *Server) renderSubjects(w http.ResponseWriter) {
	st, err := s.svc.State()
	if err != nil {
		s.internalError(w, "loading state for subjects", err)
		return
	}

	nextByLecture := make(map[string]string, len(st.Reviews))
	for _, r := range st.Reviews {
		nextByLecture[r.LectureID] = r.TargetDate.String()
	}
	rows := make([]subjectRow, 0, len(st.Subjects))
	for _, sub := range st.Subjects {
		row := subjectRow{ID: sub.ID, Name: sub.Name}
		for _, lec := range st.Lectures {
			if lec.SubjectID != sub.ID {
				continue
			}
			next, ok := nextByLecture[lec.ID]
			if !ok {
				next = "fully reviewed"
			}
			row.Lectures = append(row.Lectures, lectureRow{
				ID:             lec.ID,
				Name:           lec.Name,
				FirstStudyDate: lec.FirstStudyDate.String(),
				Cycles:         lec.CompletedReviewCycles,
				NextReview:     next,
				Notes:          lec.Notes,
			})
		}
		rows = append(rows, row)
	}

	s.render(w, "subjects", map[string]interface{}{
		"Subjects": rows,
		"Today":    s.svc.Today().String(),
	})
}

func (s *Server) handleRenameSubject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, err := s.svc.RenameSubject(r.PostFormValue("id"), r.PostFormValue("name")); err != nil {
		s.internalError(w, "renaming subject", err)
		return
	}
	http.Redirect(w, r, "/subjects", http.StatusSeeOther)
}

// handleDeleteSubject deletes a subject and everything under it.
func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, err := s.svc.DeleteSubject(r.PostFormValue("id")); err != nil {
		s.internalError(w, "deleting subject", err)
		return
	}
	http.Redirect(w, r, "/subjects", http.StatusSeeOther)
}

func (s *Server) handleAddLecture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	firstStudy, err := domain.ParseDate(r.PostFormValue("first_study_date"))
	if err != nil {
		http.Error(w, "Invalid study date", http.StatusBadRequest)
		return
	}
	_, err = s.svc.AddLecture(r.PostFormValue("subject_id"), r.PostFormValue("name"), firstStudy, r.PostFormValue("notes"))
	if err != nil {
		s.internalError(w, "adding lecture", err)
		return
	}
	http.Redirect(w, r, "/subjects", http.StatusSeeOther)
}

func (s *Server) handleEditLecture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	firstStudy, err := domain.ParseDate(r.PostFormValue("first_study_date"))
	if err != nil {
		http.Error(w, "Invalid study date", http.StatusBadRequest)
		return
	}
	_, err = s.svc.EditLecture(r.PostFormValue("id"), r.PostFormValue("name"), firstStudy, r.PostFormValue("notes"))
	if err != nil {
		s.internalError(w, "editing lecture", err)
		return
	}
	http.Redirect(w, r, "/subjects", http.StatusSeeOther)
}

func (s *Server) handleDeleteLecture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, err := s.svc.DeleteLecture(r.PostFormValue("id")); err != nil {
		s.internalError(w, "deleting lecture", err)
		return
	}
	http.Redirect(w, r, "/subjects", http.StatusSeeOther)
}

// handleCompleteReview marks a review done and returns to the dashboard.
func (s *Server) handleCompleteReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, err := s.svc.CompleteReview(r.PostFormValue("id")); err != nil {
		s.internalError(w, "completing review", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleEditReviewDate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	newDate, err := domain.ParseDate(r.PostFormValue("date"))
	if err != nil {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return
	}
	if _, err := s.svc.EditReviewDate(r.PostFormValue("id"), newDate); err != nil {
		s.internalError(w, "editing review date", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var day domain.Date
	if raw := r.PostFormValue("date"); raw != "" {
		parsed, err := domain.ParseDate(raw)
		if err != nil {
			http.Error(w, "Invalid date", http.StatusBadRequest)
			return
		}
		day = parsed
	}
	if _, err := s.svc.AddDailyTask(r.PostFormValue("text"), day); err != nil {
		s.internalError(w, "adding daily task", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, err := s.svc.ToggleDailyTask(r.PostFormValue("id")); err != nil {
		s.internalError(w, "toggling daily task", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, err := s.svc.DeleteDailyTask(r.PostFormValue("id")); err != nil {
		s.internalError(w, "deleting daily task", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleSettings shows and updates the interval policy.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		st, err := s.svc.State()
		if err != nil {
			s.internalError(w, "loading state for settings", err)
			return
		}
		s.render(w, "settings", map[string]interface{}{
			"Intervals": policy.Format(st.CustomReviewIntervals),
			"Default":   policy.Format(policy.Default),
		})
	case http.MethodPost:
		if _, err := s.svc.SetIntervals(r.PostFormValue("intervals")); err != nil {
			slog.Warn("rejected interval input", "error", err)
			http.Error(w, "Invalid intervals: use comma-separated positive day counts", http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleExportICS streams the calendar file for all or one subject.
func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	content, err := s.svc.ExportICS(r.URL.Query().Get("subject"))
	if err != nil {
		s.internalError(w, "exporting calendar", err)
		return
	}
	if content == "" {
		http.Error(w, "No pending reviews to export", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="reviews.ics"`)
	fmt.Fprint(w, content)
}

// handleExportData streams the whole-state JSON snapshot.
func (s *Server) handleExportData(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.ExportJSON()
	if err != nil {
		s.internalError(w, "exporting data", err)
		return
	}
	filename := snapshot.ExportFilenamePrefix + time.Now().Format("2006-01-02_15-04-05") + ".json"
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}

// handleImportData replaces current state with an uploaded snapshot.
func (s *Server) handleImportData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	file, _, err := r.FormFile("snapshot")
	if err != nil {
		http.Error(w, "Missing snapshot file", http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read snapshot file", http.StatusBadRequest)
		return
	}
	if _, err := s.svc.ImportJSON(data); err != nil {
		slog.Warn("rejected snapshot import", "error", err)
		http.Error(w, "Invalid snapshot file", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, action string, err error) {
	log.Printf("Error %s: %v", action, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
