package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TypeReportProcess is the queued task that runs AI extraction for one
// uploaded inspection report.
const TypeReportProcess = "report:process"

type ReportProcessPayload struct {
	InspectionID string `json:"inspection_id"`
	JobID        string `json:"job_id"`
}

func NewReportProcessTask(inspectionID, jobID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ReportProcessPayload{
		InspectionID: inspectionID,
		JobID:        jobID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReportProcess, payload, asynq.MaxRetry(0)), nil
}

func ParseReportProcessPayload(data []byte) (ReportProcessPayload, error) {
	var p ReportProcessPayload
	err := json.Unmarshal(data, &p)
	return p, err
}
