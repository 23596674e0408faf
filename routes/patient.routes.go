package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/skssmd/patient-project/internal/controllers"
)

// RegisterPatientRoutes registers every patient route with and without the
// trailing slash so neither form is redirected.
func RegisterPatientRoutes(router *gin.Engine, patientController *controllers.PatientController) {
	patientRoutes := router.Group("/patients")
	{
		for _, root := range []string{"", "/"} {
			patientRoutes.GET(root, patientController.ListPatients)
			patientRoutes.POST(root, patientController.CreatePatient)
		}
		patientRoutes.POST("/bulk", patientController.BulkCreatePatients)
		patientRoutes.POST("/bulk/", patientController.BulkCreatePatients)

		for _, path := range []string{"/:id", "/:id/"} {
			patientRoutes.GET(path, patientController.GetPatient)
			patientRoutes.DELETE(path, patientController.DeletePatient)
		}
	}
}

func RegisterProcessRoutes(router *gin.Engine, processController *controllers.ProcessController) {
	processRoutes := router.Group("/patients/:id")
	{
		processRoutes.POST("/process", processController.ProcessPatient)
		processRoutes.POST("/process/", processController.ProcessPatient)
		processRoutes.GET("/metrics", processController.ListMetrics)
		processRoutes.GET("/metrics/", processController.ListMetrics)
		processRoutes.POST("/metrics", processController.CreateMetrics)
		processRoutes.POST("/metrics/", processController.CreateMetrics)
	}
}
