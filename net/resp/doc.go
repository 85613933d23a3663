// Package resp writes JSON responses for the task API.
//
// Successful responses carry the payload itself:
//
//	resp.Success(w, task)
//	resp.WithStatusCode(w, http.StatusCreated, task)
//
// Failures carry an error message and a business code from ecode:
//
//	resp.Fail(w, resp.NotFound("Task not found"))
//
//	{"error": "Task not found", "code": -404}
package resp
