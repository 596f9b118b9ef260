package main

import (
	"fmt"
	"time"

	"github.com/born-ml/audioquery/internal/logger"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

func newRunCmd(opts *options) *cobra.Command {
	var show int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate queries for a synthetic audio batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			start := time.Now()
			shape, data, err := s.Forward()
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			values := make([]float64, len(data))
			for i, v := range data {
				values[i] = float64(v)
			}
			mean, std := stat.MeanStdDev(values, nil)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "backend:    %s\n", s.BackendName())
			fmt.Fprintf(out, "parameters: %d\n", s.NumParameters())
			fmt.Fprintf(out, "output:     %v\n", shape)
			fmt.Fprintf(out, "elapsed:    %v\n", elapsed)
			fmt.Fprintf(out, "mean/std:   %.6f / %.6f\n", mean, std)

			embed := shape[len(shape)-1]
			for q := 0; q < shape[1] && show > 0; q++ {
				n := min(show, embed)
				fmt.Fprintf(out, "query[0][%d]: %v\n", q, data[q*embed:q*embed+n])
			}

			logger.Log.Debug("run finished", "elapsed", elapsed.String())
			return nil
		},
	}

	addModelFlags(cmd, opts)
	cmd.Flags().IntVar(&show, "show", 4, "Leading values to print per query of the first sample")
	return cmd
}
