// Package model defines the data structures shared by the client core and the
// reference execution service.
//
// The JSON tags are the wire contract with the execution service. The field
// names are load-bearing: the browser-era client and the service agree on
// them, so changing a tag breaks compatibility.
package model

// ExecutionRequest is the body of POST /run.
// It is built fresh for every run and never persisted.
type ExecutionRequest struct {
	Code           string  `json:"code"`
	TimeoutSeconds float64 `json:"timeout"`
	TimeoutEnabled bool    `json:"timeout_enabled"`
}

// RunOutput is the "result" object of a successful /run response.
//
// ReturnCode is a pointer because a process that never started has no exit
// code (the service sends null). Traceback is set only when the service
// itself failed to launch the program.
type RunOutput struct {
	Stdout     string  `json:"stdout"`
	Stderr     string  `json:"stderr"`
	ReturnCode *int    `json:"returncode"`
	Timeout    bool    `json:"timeout"`
	Traceback  *string `json:"traceback"`
}

// RunResponse is the full body of a /run response, either
// {ok:true, result, imports, missing, ...} or {ok:false, error}.
type RunResponse struct {
	OK      bool       `json:"ok"`
	Error   string     `json:"error,omitempty"`
	File    string     `json:"file,omitempty"`
	Imports []string   `json:"imports"`
	Found   []string   `json:"found"`
	Missing []string   `json:"missing"`
	Result  *RunOutput `json:"result,omitempty"`
}

// ExecutionResult is the client's view of one run, flattened from RunResponse.
type ExecutionResult struct {
	OK        bool
	Stdout    string
	Stderr    string
	Traceback *string
	Imports   []string
	Missing   map[string]bool
}

// ExecutionResult flattens the wire response. Missing becomes a set; order is
// carried only by Imports.
func (r *RunResponse) ExecutionResult() ExecutionResult {
	res := ExecutionResult{
		OK:      r.OK,
		Imports: r.Imports,
		Missing: make(map[string]bool, len(r.Missing)),
	}
	for _, m := range r.Missing {
		res.Missing[m] = true
	}
	if r.Result != nil {
		res.Stdout = r.Result.Stdout
		res.Stderr = r.Result.Stderr
		res.Traceback = r.Result.Traceback
	}
	return res
}

// ImportStatus is one rendered line of the modules panel.
type ImportStatus struct {
	Module  string
	Missing bool
}

// ImportStatuses marks every import as found unless it is also missing.
// Order follows Imports exactly, duplicates included.
func (r ExecutionResult) ImportStatuses() []ImportStatus {
	out := make([]ImportStatus, 0, len(r.Imports))
	for _, m := range r.Imports {
		out = append(out, ImportStatus{Module: m, Missing: r.Missing[m]})
	}
	return out
}
