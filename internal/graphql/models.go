package graphql

// Status is the resumption state returned by the status query.
type Status struct {
	LastRow   int  `json:"lastRow"`
	MarkerRow int  `json:"markerRow"`
	Resumable bool `json:"resumable"`
}

// Carrier is one shopped carrier.
type Carrier struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// RunReport describes a manually triggered invocation.
type RunReport struct {
	InvocationID string `json:"invocationId"`
	StartRow     int    `json:"startRow"`
	EndRow       int    `json:"endRow"`
	LastRow      int    `json:"lastRow"`
	Processed    int    `json:"processed"`
	Failed       int    `json:"failed"`
	NoRates      int    `json:"noRates"`
	Outcome      string `json:"outcome"`
}
