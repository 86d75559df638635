package routes

// Base returns the API base path.
func Base() string {
	return "/api"
}

// Tasks returns the task listing path.
func Tasks() string {
	return Base() + "/tasks"
}

// Health returns the liveness probe path.
func Health() string {
	return "/healthz"
}
