package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skssmd/patient-project/internal/repository"
	"github.com/skssmd/patient-project/internal/services"
)

type PatientController struct {
	patients *services.PatientService
}

func NewPatientController(patients *services.PatientService) *PatientController {
	return &PatientController{patients: patients}
}

var patientNotFound = gin.H{"patient": nil}

// ListPatients godoc
// @Summary List patients
// @Description Paginated patient list ordered by id, 10 per page. Invalid or missing page means page 1.
// @Tags patients
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param search query string false "Case-insensitive match on first or last name"
// @Param sex query string false "Filter by sex" Enums(male, female, other)
// @Param ethnic_background query string false "Filter by ethnic background"
// @Success 200 {object} Envelope{series=Series{result=services.PatientPage}} "Patients retrieved successfully"
// @Failure 500 {object} Envelope "Failed to retrieve patients"
// @Router /patients/ [get]
func (pc *PatientController) ListPatients(c *gin.Context) {
	filter := repository.PatientFilter{
		Search:           c.Query("search"),
		Sex:              c.Query("sex"),
		EthnicBackground: c.Query("ethnic_background"),
	}

	page, err := pc.patients.ListPage(c.Request.Context(), services.ParsePage(c.Query("page")), filter)
	if err != nil {
		respondError(c, err, nil)
		return
	}

	respond(c, http.StatusOK, page)
}

// CreatePatient godoc
// @Summary Create a patient
// @Description Create a patient. All fields are required, dob is YYYY-MM-DD.
// @Tags patients
// @Accept json
// @Produce json
// @Param patient body services.PatientInput true "Patient data"
// @Success 201 {object} Envelope{series=Series{result=object{patient=models.Patient}}} "Patient created successfully"
// @Failure 400 {object} Envelope "Field errors"
// @Failure 500 {object} Envelope "Failed to create patient"
// @Router /patients/ [post]
func (pc *PatientController) CreatePatient(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, err, nil)
		return
	}

	patient, err := pc.patients.Create(c.Request.Context(), body)
	if err != nil {
		respondError(c, err, nil)
		return
	}

	respond(c, http.StatusCreated, gin.H{"patient": patient})
}

// BulkCreatePatients godoc
// @Summary Create many patients
// @Description Create a list of patients atomically. If any item is invalid nothing is stored and errors are reported per item.
// @Tags patients
// @Accept json
// @Produce json
// @Param patients body []services.PatientInput true "Patient list"
// @Success 201 {object} Envelope{series=Series{result=object{patients=[]models.Patient}}} "Patients created successfully"
// @Failure 400 {object} Envelope "Body is not a list, or per-item field errors"
// @Failure 500 {object} Envelope "Failed to create patients"
// @Router /patients/bulk [post]
func (pc *PatientController) BulkCreatePatients(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, err, nil)
		return
	}

	patients, err := pc.patients.CreateBulk(c.Request.Context(), body)
	if err != nil {
		respondError(c, err, nil)
		return
	}

	respond(c, http.StatusCreated, gin.H{"patients": patients})
}

// GetPatient godoc
// @Summary Get a patient
// @Description Retrieve a patient by id
// @Tags patients
// @Produce json
// @Param id path int true "Patient ID"
// @Success 200 {object} Envelope{series=Series{result=object{patient=models.Patient}}} "Patient retrieved successfully"
// @Failure 404 {object} Envelope "Patient not found, result.patient is null"
// @Router /patients/{id}/ [get]
func (pc *PatientController) GetPatient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respond(c, http.StatusNotFound, patientNotFound)
		return
	}

	patient, err := pc.patients.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, patientNotFound)
		return
	}

	respond(c, http.StatusOK, gin.H{"patient": patient})
}

// DeletePatient godoc
// @Summary Delete a patient
// @Description Delete a patient and all of its metrics. Returns the patient as it was before deletion.
// @Tags patients
// @Produce json
// @Param id path int true "Patient ID"
// @Success 200 {object} Envelope{series=Series{result=object{patient=models.Patient}}} "Patient deleted successfully"
// @Failure 404 {object} Envelope "Patient not found, result.patient is null"
// @Router /patients/{id}/ [delete]
func (pc *PatientController) DeletePatient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respond(c, http.StatusNotFound, patientNotFound)
		return
	}

	patient, err := pc.patients.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, patientNotFound)
		return
	}

	respond(c, http.StatusOK, gin.H{"patient": patient})
}
