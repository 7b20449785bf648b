package tasks

// DefineTasks registers all available tasks
func DefineTasks() {
	RegisterHandler(ExpireMembershipsTask.TaskID(), ExpireMembershipsTask.HandleExecution)
}
