package plot

// SampleMsg carries one parsed telemetry line.
type SampleMsg Sample

// BadLineMsg reports a line that could not be parsed.
type BadLineMsg struct {
	Err error
}

// SourceDoneMsg reports the end of the telemetry stream.
type SourceDoneMsg struct {
	Err error
}
