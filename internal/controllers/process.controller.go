package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skssmd/patient-project/internal/services"
)

type ProcessController struct {
	process *services.ProcessService
}

func NewProcessController(process *services.ProcessService) *ProcessController {
	return &ProcessController{process: process}
}

var processNotFound = gin.H{"error": "Patient not found"}

// ProcessPatient godoc
// @Summary Process patient measurements
// @Description Returns stored results for an exact weight/height match, otherwise calls the processing API once and stores its answer. Remote failures are returned with the remote status and body unchanged.
// @Tags process
// @Accept json
// @Produce json
// @Param id path int true "Patient ID"
// @Param metrics body services.MetricsInput true "Weight and height"
// @Success 200 {object} Envelope{series=Series{result=services.ProcessResult}} "Processed"
// @Failure 400 {object} Envelope "Field errors"
// @Failure 404 {object} Envelope "Patient not found"
// @Failure 502 {string} string "Processing API unreachable"
// @Router /patients/{id}/process [post]
func (pc *ProcessController) ProcessPatient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respond(c, http.StatusNotFound, processNotFound)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		respondError(c, err, nil)
		return
	}

	result, err := pc.process.Process(c.Request.Context(), id, body)
	if err != nil {
		respondError(c, err, processNotFound)
		return
	}

	respond(c, http.StatusOK, result)
}

// ListMetrics godoc
// @Summary List stored metrics
// @Description Every metrics row stored for a patient, oldest first
// @Tags process
// @Produce json
// @Param id path int true "Patient ID"
// @Success 200 {object} Envelope{series=Series{result=object{metrics=[]models.MetricsView}}} "Metrics retrieved successfully"
// @Failure 404 {object} Envelope "Patient not found"
// @Router /patients/{id}/metrics [get]
func (pc *ProcessController) ListMetrics(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respond(c, http.StatusNotFound, processNotFound)
		return
	}

	metrics, err := pc.process.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, processNotFound)
		return
	}

	respond(c, http.StatusOK, gin.H{"metrics": metrics})
}

// CreateMetrics godoc
// @Summary Store metrics directly
// @Description Store a weight/height observation with optional results without calling the processing API. Responds 200 with the existing row when an identical one is already stored.
// @Tags process
// @Accept json
// @Produce json
// @Param id path int true "Patient ID"
// @Param metrics body services.MetricsInput true "Weight, height and optional results"
// @Success 201 {object} Envelope{series=Series{result=object{metrics=models.MetricsView}}} "Metrics stored"
// @Success 200 {object} Envelope{series=Series{result=object{metrics=models.MetricsView}}} "Identical metrics already stored"
// @Failure 400 {object} Envelope "Field errors"
// @Failure 404 {object} Envelope "Patient not found"
// @Router /patients/{id}/metrics [post]
func (pc *ProcessController) CreateMetrics(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respond(c, http.StatusNotFound, processNotFound)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		respondError(c, err, nil)
		return
	}

	metrics, created, err := pc.process.Ingest(c.Request.Context(), id, body)
	if err != nil {
		respondError(c, err, processNotFound)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respond(c, status, gin.H{"metrics": metrics})
}
