// sim/metrics_utils.go
package sim

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"
)

// FormatAverage renders a value as an integer when it is whole and with exactly
// two decimal digits otherwise.
func FormatAverage(v float64) string {
	if math.Trunc(v) == v {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// WriteResults writes the average waiting time, then the average turnaround time,
// one per line.
func (m *Metrics) WriteResults(w io.Writer) error {
	if _, err := fmt.Fprintln(w, FormatAverage(m.AverageWaiting())); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, FormatAverage(m.AverageTurnaround()))
	return err
}

// SaveResults writes the two averages to fileName, replacing any previous content.
// Failures wrap ErrResourceUnavailable.
func (m *Metrics) SaveResults(fileName string) (err error) {
	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: creating result file: %w", ErrResourceUnavailable, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: closing result file: %w", ErrResourceUnavailable, closeErr)
		}
	}()

	writer := bufio.NewWriter(file)
	if err := m.WriteResults(writer); err != nil {
		return fmt.Errorf("%w: writing result file: %w", ErrResourceUnavailable, err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("%w: flushing result file: %w", ErrResourceUnavailable, err)
	}

	logrus.Debugf("Successfully wrote results to '%s'", fileName)
	return nil
}
