package orbsim

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// ExportConfig configures trajectory export for the presentation layer.
type ExportConfig struct {
	Filename  string
	OutputDir string
	Timestamp bool // append the creation time to the file name
}

// IsUseless returns whether this configuration would export nothing.
func (c ExportConfig) IsUseless() bool {
	return c.Filename == ""
}

func (c ExportConfig) path() string {
	dir := c.OutputDir
	if dir == "" {
		dir = "."
	}
	if c.Timestamp {
		t := time.Now()
		return fmt.Sprintf("%s/forecast-%s-%d-%02d-%02dT%02d.%02d.%02d.xyz", dir, c.Filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	return fmt.Sprintf("%s/forecast-%s.xyz", dir, c.Filename)
}

// ForecastSample is one exported forecast point.
type ForecastSample struct {
	DT  time.Time
	Pos Vec3
}

// StreamTrajectory writes samples from the channel to an xyz file, one record
// per line as <jd> <x> <y> <z>. It returns once the channel is closed.
func StreamTrajectory(conf ExportConfig, samples <-chan ForecastSample) error {
	f, err := os.Create(conf.path())
	if err != nil {
		return err
	}
	defer f.Close()
	f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Records are <jd> <x> <y> <z>
#   Time is a Julian date
#   Position in km
`, time.Now().UTC()))
	for sample := range samples {
		fmt.Fprintf(f, "%f %f %f %f\n", julian.TimeToJD(sample.DT), sample.Pos[0], sample.Pos[1], sample.Pos[2])
	}
	return nil
}

// ExportTrajectory writes a full forecast, spacing samples dt seconds apart
// from the given start time.
func ExportTrajectory(conf ExportConfig, traj Trajectory, start time.Time, dt float64) error {
	if conf.IsUseless() {
		return nil
	}
	samples := make(chan ForecastSample, 1000)
	var wg sync.WaitGroup
	var streamErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		streamErr = StreamTrajectory(conf, samples)
	}()
	for i, pt := range traj.Points {
		samples <- ForecastSample{DT: start.Add(time.Duration(float64(i)*dt*1e9) * time.Nanosecond), Pos: pt}
	}
	close(samples)
	wg.Wait()
	return streamErr
}
