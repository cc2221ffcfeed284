package domain

// Counters tallies external collaborator calls. Stages receive a zero value,
// count the calls they issue and return it; the orchestrator sums them.
type Counters struct {
	VisionCalls     int
	GenerativeCalls int
}

// Total is the number of calls across both collaborators.
func (c Counters) Total() int {
	return c.VisionCalls + c.GenerativeCalls
}

// Add returns the sum of c and o.
func (c Counters) Add(o Counters) Counters {
	return Counters{
		VisionCalls:     c.VisionCalls + o.VisionCalls,
		GenerativeCalls: c.GenerativeCalls + o.GenerativeCalls,
	}
}

// Usage converts the counters to their serialized form.
func (c Counters) Usage() APIUsage {
	return APIUsage{
		VisionAPICalls: c.VisionCalls,
		GeminiAPICalls: c.GenerativeCalls,
		TotalAPICalls:  c.Total(),
	}
}
