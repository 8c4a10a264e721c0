package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-systems/exeat-workflow/internal/application/port"
	"github.com/campus-systems/exeat-workflow/internal/application/service"
	"github.com/campus-systems/exeat-workflow/internal/domain/entity"
	"github.com/campus-systems/exeat-workflow/internal/domain/workflow"
	"github.com/campus-systems/exeat-workflow/internal/report"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	exeatService  service.ExeatService
	debtService   service.DebtService
	hostelService service.HostelService
	exporter      *report.RegisterExporter
	logger        Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	exeatService service.ExeatService,
	debtService service.DebtService,
	hostelService service.HostelService,
	exporter *report.RegisterExporter,
	logger Logger,
) *Handlers {
	return &Handlers{
		exeatService:  exeatService,
		debtService:   debtService,
		hostelService: hostelService,
		exporter:      exporter,
		logger:        logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// SubmitExeatRequest represents the body of a new exeat submission
type SubmitExeatRequest struct {
	StudentID     int64  `json:"student_id" binding:"required"`
	MatricNumber  string `json:"matric_number" binding:"required"`
	StudentName   string `json:"student_name" binding:"required"`
	IsMedical     bool   `json:"is_medical"`
	Reason        string `json:"reason" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	DepartureDate string `json:"departure_date" binding:"required"`
	ReturnDate    string `json:"return_date" binding:"required"`
	ParentPhone   string `json:"parent_phone"`
}

// DecisionRequest represents a staff decision body. Role is an explicit
// parameter; identity enforcement sits in front of this service.
type DecisionRequest struct {
	StaffID   int64  `json:"staff_id" binding:"required"`
	StaffName string `json:"staff_name" binding:"required"`
	Role      string `json:"role" binding:"required"`
	Comment   string `json:"comment"`
}

// ConsentRequest represents a parent consent body
type ConsentRequest struct {
	Method  string `json:"method" binding:"required"`
	Comment string `json:"comment"`
}

// DebtRequest represents a new debt body
type DebtRequest struct {
	StudentID   int64   `json:"student_id" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
}

// ClearDebtRequest identifies the staff member clearing a debt
type ClearDebtRequest struct {
	ClearedBy int64 `json:"cleared_by" binding:"required"`
}

// HostelRequest represents a hostel assignment body
type HostelRequest struct {
	HostelName string `json:"hostel_name" binding:"required"`
	RoomNumber string `json:"room_number"`
	AssignedBy int64  `json:"assigned_by"`
}

// ListExeatsRequest represents query parameters for listing requests
type ListExeatsRequest struct {
	Status    string `form:"status"`
	StudentID int64  `form:"student_id"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
}

// ExeatResponse represents an exeat request in API responses
type ExeatResponse struct {
	ID            int64   `json:"id"`
	Reference     string  `json:"reference"`
	StudentID     int64   `json:"student_id"`
	MatricNumber  string  `json:"matric_number"`
	StudentName   string  `json:"student_name"`
	Status        string  `json:"status"`
	IsMedical     bool    `json:"is_medical"`
	Reason        string  `json:"reason"`
	Destination   string  `json:"destination"`
	DepartureDate string  `json:"departure_date"`
	ReturnDate    string  `json:"return_date"`
	ParentPhone   string  `json:"parent_phone,omitempty"`
	ActualReturn  *string `json:"actual_return,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// SubmitExeat handles POST /api/exeats
func (h *Handlers) SubmitExeat(c *gin.Context) {
	var req SubmitExeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	departure, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		h.badRequest(c, "invalid departure_date, expected YYYY-MM-DD", err)
		return
	}
	returnDate, err := time.Parse("2006-01-02", req.ReturnDate)
	if err != nil {
		h.badRequest(c, "invalid return_date, expected YYYY-MM-DD", err)
		return
	}

	created, err := h.exeatService.Submit(c.Request.Context(), service.SubmitInput{
		StudentID:     req.StudentID,
		MatricNumber:  req.MatricNumber,
		StudentName:   req.StudentName,
		IsMedical:     req.IsMedical,
		Reason:        req.Reason,
		Destination:   req.Destination,
		DepartureDate: departure,
		ReturnDate:    returnDate,
		ParentPhone:   req.ParentPhone,
	})
	if err != nil {
		h.serviceError(c, err, "failed to submit exeat request")
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    toExeatResponse(created),
	})
}

// ListExeats handles GET /api/exeats
func (h *Handlers) ListExeats(c *gin.Context) {
	var req ListExeatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "invalid query parameters", err)
		return
	}

	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	requests, err := h.exeatService.List(c.Request.Context(), port.ExeatFilter{
		Status:    req.Status,
		StudentID: req.StudentID,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		h.serviceError(c, err, "failed to retrieve exeat requests")
		return
	}

	responses := make([]ExeatResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, toExeatResponse(r))
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    responses,
	})
}

// GetExeat handles GET /api/exeats/:id
func (h *Handlers) GetExeat(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	req, err := h.exeatService.Get(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, "failed to retrieve exeat request")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toExeatResponse(req),
	})
}

// GetExeatByReference handles GET /api/exeats/ref/:reference
func (h *Handlers) GetExeatByReference(c *gin.Context) {
	req, err := h.exeatService.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		h.serviceError(c, err, "failed to retrieve exeat request")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toExeatResponse(req),
	})
}

// GetTimeline handles GET /api/exeats/:id/timeline
func (h *Handlers) GetTimeline(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.exeatService.Timeline(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, "failed to resolve timeline")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    view,
	})
}

// ApproveExeat handles POST /api/exeats/:id/approve
func (h *Handlers) ApproveExeat(c *gin.Context) {
	h.decide(c, h.exeatService.Approve)
}

// RejectExeat handles POST /api/exeats/:id/reject
func (h *Handlers) RejectExeat(c *gin.Context) {
	h.decide(c, h.exeatService.Reject)
}

// decide is the shared body for approve and reject
func (h *Handlers) decide(c *gin.Context, fn func(ctx context.Context, in service.DecisionInput) (*entity.ExeatRequest, error)) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	updated, err := fn(c.Request.Context(), service.DecisionInput{
		RequestID: id,
		StaffID:   req.StaffID,
		StaffName: req.StaffName,
		Role:      req.Role,
		Comment:   req.Comment,
	})
	if err != nil {
		h.serviceError(c, err, "decision failed")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toExeatResponse(updated),
	})
}

// RecordParentConsent handles POST /api/exeats/:id/parent-consent
func (h *Handlers) RecordParentConsent(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req ConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	updated, err := h.exeatService.ParentConsent(c.Request.Context(), service.ConsentInput{
		RequestID: id,
		Method:    req.Method,
		Comment:   req.Comment,
	})
	if err != nil {
		h.serviceError(c, err, "failed to record parent consent")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toExeatResponse(updated),
	})
}

// MarkDeparted handles POST /api/exeats/:id/depart
func (h *Handlers) MarkDeparted(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var body struct {
		StaffID int64 `json:"staff_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	updated, err := h.exeatService.MarkDeparted(c.Request.Context(), id, body.StaffID)
	if err != nil {
		h.serviceError(c, err, "failed to record departure")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toExeatResponse(updated),
	})
}

// SignIn handles POST /api/exeats/:id/sign-in
func (h *Handlers) SignIn(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	updated, err := h.exeatService.SignIn(c.Request.Context(), service.DecisionInput{
		RequestID: id,
		StaffID:   req.StaffID,
		StaffName: req.StaffName,
		Role:      req.Role,
	})
	if err != nil {
		h.serviceError(c, err, "failed to record sign-in")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toExeatResponse(updated),
	})
}

// CreateDebt handles POST /api/debts
func (h *Handlers) CreateDebt(c *gin.Context) {
	var req DebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	debt, err := h.debtService.Create(c.Request.Context(), req.StudentID, req.Description, req.Amount)
	if err != nil {
		h.serviceError(c, err, "failed to create debt")
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    debt,
	})
}

// ListStudentDebts handles GET /api/students/:studentId/debts
func (h *Handlers) ListStudentDebts(c *gin.Context) {
	studentID, ok := h.pathID(c, "studentId")
	if !ok {
		return
	}

	debts, err := h.debtService.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		h.serviceError(c, err, "failed to list debts")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    debts,
	})
}

// ClearDebt handles POST /api/debts/:id/clear
func (h *Handlers) ClearDebt(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req ClearDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	debt, err := h.debtService.Clear(c.Request.Context(), id, req.ClearedBy)
	if err != nil {
		h.serviceError(c, err, "failed to clear debt")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    debt,
	})
}

// AssignHostel handles PUT /api/students/:studentId/hostel
func (h *Handlers) AssignHostel(c *gin.Context) {
	studentID, ok := h.pathID(c, "studentId")
	if !ok {
		return
	}

	var req HostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	assignment, err := h.hostelService.Assign(c.Request.Context(), studentID, req.HostelName, req.RoomNumber, req.AssignedBy)
	if err != nil {
		h.serviceError(c, err, "failed to assign hostel")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    assignment,
	})
}

// GetHostelAssignment handles GET /api/students/:studentId/hostel
func (h *Handlers) GetHostelAssignment(c *gin.Context) {
	studentID, ok := h.pathID(c, "studentId")
	if !ok {
		return
	}

	assignment, err := h.hostelService.GetByStudent(c.Request.Context(), studentID)
	if err != nil {
		h.serviceError(c, err, "failed to get hostel assignment")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    assignment,
	})
}

// UnassignHostel handles DELETE /api/students/:studentId/hostel
func (h *Handlers) UnassignHostel(c *gin.Context) {
	studentID, ok := h.pathID(c, "studentId")
	if !ok {
		return
	}

	if err := h.hostelService.Unassign(c.Request.Context(), studentID); err != nil {
		h.serviceError(c, err, "failed to unassign hostel")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// Stats handles GET /api/admin/stats
func (h *Handlers) Stats(c *gin.Context) {
	counts, err := h.exeatService.Stats(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    counts,
	})
}

// ExportRegister handles GET /api/admin/register
func (h *Handlers) ExportRegister(c *gin.Context) {
	var req ListExeatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "invalid query parameters", err)
		return
	}
	if req.Limit <= 0 || req.Limit > 1000 {
		req.Limit = 500
	}

	buf, err := h.exporter.ExeatRegister(c.Request.Context(), port.ExeatFilter{
		Status:    req.Status,
		StudentID: req.StudentID,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		h.serviceError(c, err, "failed to export register")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.FileName(time.Now())+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// pathID parses an int64 path parameter, replying 400 on failure
func (h *Handlers) pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.badRequest(c, "invalid "+name, err)
		return 0, false
	}
	return id, true
}

func (h *Handlers) badRequest(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, "error", err, "path", c.Request.URL.Path)
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   msg,
	})
}

// serviceError maps application errors to HTTP status codes
func (h *Handlers) serviceError(c *gin.Context, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrUnknownRole):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrOutstandingDebt),
		errors.Is(err, service.ErrRequestClosed),
		errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrGuardFailed):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.logger.Error(msg, "error", err, "path", c.Request.URL.Path)
	}

	c.JSON(status, Response{
		Success: false,
		Error:   err.Error(),
	})
}

// toExeatResponse converts domain entity to API response
func toExeatResponse(req *entity.ExeatRequest) ExeatResponse {
	resp := ExeatResponse{
		ID:            req.ID,
		Reference:     req.Reference,
		StudentID:     req.StudentID,
		MatricNumber:  req.MatricNumber,
		StudentName:   req.StudentName,
		Status:        req.Status,
		IsMedical:     req.IsMedical,
		Reason:        req.Reason,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate.Format("2006-01-02"),
		ReturnDate:    req.ReturnDate.Format("2006-01-02"),
		ParentPhone:   req.ParentPhone,
		CreatedAt:     req.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     req.UpdatedAt.Format(time.RFC3339),
	}

	if req.ActualReturn != nil {
		actual := req.ActualReturn.Format(time.RFC3339)
		resp.ActualReturn = &actual
	}

	return resp
}
