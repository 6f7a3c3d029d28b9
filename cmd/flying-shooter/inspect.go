package main

import (
	"fmt"
	"io"

	"github.com/clinuxrulz/flying-shooter/session"
)

// inspect prints the desync reports named in paths
func inspect(w io.Writer, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("inspect: no dump files given")
	}
	for _, path := range paths {
		rep, err := session.ReadDesyncReport(path)
		if err != nil {
			return err
		}
		if err := describeReport(w, path, rep); err != nil {
			return err
		}
	}
	return nil
}

func describeReport(w io.Writer, path string, rep *session.DesyncReport) error {
	fmt.Fprintf(w, "%s: frame %d, player %d\n", path, rep.Frame, rep.Peer+1)
	fmt.Fprintf(w, "  local  %016x\n", rep.Local)
	if rep.HasRemote {
		fmt.Fprintf(w, "  remote %016x\n", rep.Remote)
	} else {
		fmt.Fprintf(w, "  remote unknown\n")
	}
	for h, in := range rep.Inputs {
		mark := "predicted"
		if h < len(rep.Confirmed) && rep.Confirmed[h] {
			mark = "confirmed"
		}
		fmt.Fprintf(w, "  input p%d %v (%s)\n", h+1, in, mark)
	}

	world, sum, err := rep.RestoreState()
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}
	fmt.Fprintf(w, "  state frame %d, %d entities, checksum %016x\n", rep.StateFrame, world.EntityCount(), sum)
	if rep.StateFrame == rep.Frame && sum != rep.Local {
		fmt.Fprintf(w, "  state checksum differs from recorded local checksum\n")
	}
	return nil
}
