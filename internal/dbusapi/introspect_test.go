package dbusapi

import "testing"

func TestIntrospectionCoversNotifications(t *testing.T) {
	want := []string{
		sigPlaying, sigStopped, sigPaused, sigDuration, sigPlayPosition,
		sigTagInfo, sigAlbumArtReady, sigPlayEnded, sigSeekCompleted,
		sigError, sigSamplerate,
	}
	have := map[string]bool{}
	for _, s := range controlInterface.Signals {
		have[s.Name] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("signal %s missing from introspection data", name)
		}
	}
	if len(controlInterface.Signals) != len(want) {
		t.Errorf("%d signals declared, want %d",
			len(controlInterface.Signals), len(want))
	}
}

func TestIntrospectionMethodArgsDirected(t *testing.T) {
	for _, m := range controlInterface.Methods {
		for _, a := range m.Args {
			if a.Direction != "in" && a.Direction != "out" {
				t.Errorf("%s arg %s has direction %q", m.Name, a.Name, a.Direction)
			}
		}
	}
}
