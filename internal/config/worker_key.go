package config

type WorkerKeyStruct struct {
	AbsenteeAlertsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	AbsenteeAlertsQueue: "absentee_alerts_queue",
}
