package benchmark

import "time"

// Environment is the host snapshot captured at the start of a suite.
type Environment struct {
	Host      string    `json:"host"`
	OSInfo    string    `json:"os_info"`
	CPUInfo   string    `json:"cpu_info"`
	MemoryGB  float64   `json:"memory_gb"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is the outcome of one executed benchmark against one target.
type Result struct {
	Name      string            `json:"name"`
	Category  string            `json:"category"`
	Terminal  string            `json:"terminal"`
	Timestamp time.Time         `json:"timestamp"`
	Runs      int               `json:"runs"`
	Metrics   MetricSet         `json:"metrics"`
	RawData   []float64         `json:"raw_data"`
	Metadata  map[string]string `json:"metadata"`
}

// Failure records a benchmark that ended FAILED.
type Failure struct {
	Name     string
	Category string
	Err      error
}

// Suite holds every result collected for one target in one run, in execution order.
type Suite struct {
	Terminal string `json:"terminal"`
	Environment
	Results  []Result  `json:"results"`
	Failures []Failure `json:"-"`
}

// NewSuite starts an empty suite for terminal.
func NewSuite(terminal string, env Environment) *Suite {
	return &Suite{Terminal: terminal, Environment: env, Results: []Result{}}
}

// Result returns the result for a benchmark name.
func (s *Suite) Result(name string) (Result, bool) {
	for _, r := range s.Results {
		if r.Name == name {
			return r, true
		}
	}
	return Result{}, false
}

func (s *Suite) add(r Result) {
	s.Results = append(s.Results, r)
}

func (s *Suite) fail(d Descriptor, err error) {
	s.Failures = append(s.Failures, Failure{Name: d.Name, Category: d.Category, Err: err})
}
