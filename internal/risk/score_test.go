package risk

import (
	"testing"

	"github.com/quietlane/hostguard/internal/collector"
	"github.com/quietlane/hostguard/internal/posture"
)

// goodSnapshot returns a snapshot with every signal in its best state.
func goodSnapshot() posture.Snapshot {
	return posture.Snapshot{
		ToolStatus: posture.ToolStatus{
			SecurityAudit: collector.Ok("passed"),
			UpdateStatus:  collector.Ok("up to date"),
			StatusDeep:    collector.Ok("healthy"),
		},
		Host: posture.Host{
			Firewall:       posture.SignalState{State: posture.StateOn},
			DiskEncryption: posture.SignalState{State: posture.StateOn},
			AutoUpdates:    posture.SignalState{State: posture.StateOn},
			Backups:        posture.SignalState{State: posture.StateOn},
		},
	}
}

func TestScore_AllGood(t *testing.T) {
	got := Score(goodSnapshot())
	if got.Score != 100 {
		t.Errorf("Score = %d, want 100", got.Score)
	}
	if len(got.Deductions) != 0 {
		t.Errorf("Deductions = %+v, want none", got.Deductions)
	}
}

func TestScore_DeductionsAreAdditive(t *testing.T) {
	snap := goodSnapshot()
	snap.Host.Firewall.State = posture.StateOff   // -30
	snap.Host.AutoUpdates.State = posture.StateOff // -15

	got := Score(snap)
	if got.Score != 55 {
		t.Errorf("Score = %d, want 55 (100-30-15)", got.Score)
	}
	if len(got.Deductions) != 2 {
		t.Fatalf("got %d deductions, want 2", len(got.Deductions))
	}
}

func TestScore_UnknownIsCheaperThanOff(t *testing.T) {
	off := goodSnapshot()
	off.Host.Firewall.State = posture.StateOff
	unknown := goodSnapshot()
	unknown.Host.Firewall.State = posture.StateUnknown

	if Score(off).Score != 70 {
		t.Errorf("firewall off: score = %d, want 70", Score(off).Score)
	}
	if Score(unknown).Score != 85 {
		t.Errorf("firewall unknown: score = %d, want 85", Score(unknown).Score)
	}
}

func TestScore_AtMostOneBranchPerSignal(t *testing.T) {
	snap := goodSnapshot()
	snap.Host.DiskEncryption.State = posture.StateOff
	got := Score(snap)
	for _, d := range got.Deductions {
		if d.Points == -10 {
			t.Errorf("both branches of the encryption rule fired: %+v", got.Deductions)
		}
	}
	if got.Score != 75 {
		t.Errorf("Score = %d, want 75", got.Score)
	}
}

func TestScore_PortDeductionIsFlat(t *testing.T) {
	pid := 1
	snap := goodSnapshot()
	for port := 8000; port < 8012; port++ {
		snap.Host.Listening.TCPPorts = append(snap.Host.Listening.TCPPorts,
			posture.PortRecord{Port: port, PID: &pid, Process: "svc"})
	}

	got := Score(snap)
	if got.Score != 90 {
		t.Errorf("Score = %d, want 90 (single flat -10 for 12 ports)", got.Score)
	}

	// Exactly at the threshold there is no deduction.
	snap.Host.Listening.TCPPorts = snap.Host.Listening.TCPPorts[:5]
	if got := Score(snap); got.Score != 100 {
		t.Errorf("Score at threshold = %d, want 100", got.Score)
	}
}

func TestScore_ToolFailures(t *testing.T) {
	snap := goodSnapshot()
	snap.ToolStatus.SecurityAudit = collector.Fail("exit 1") // -20
	snap.ToolStatus.UpdateStatus = collector.Fail("timeout") // -5

	got := Score(snap)
	if got.Score != 75 {
		t.Errorf("Score = %d, want 75", got.Score)
	}
}

func TestScore_ClampedToZero(t *testing.T) {
	snap := posture.Snapshot{} // everything unknown / failed
	pid := 1
	for port := 1000; port < 1010; port++ {
		snap.Host.Listening.TCPPorts = append(snap.Host.Listening.TCPPorts,
			posture.PortRecord{Port: port, PID: &pid, Process: "svc"})
	}
	snap.Host.Firewall.State = posture.StateOff
	snap.Host.DiskEncryption.State = posture.StateOff
	snap.Host.AutoUpdates.State = posture.StateOff

	got := Score(snap)
	// 100 -30 -25 -15 -10 -20 -5 = -5, clamped.
	if got.Score != 0 {
		t.Errorf("Score = %d, want 0 (clamped)", got.Score)
	}
	if got.Score < 0 || got.Score > 100 {
		t.Errorf("Score %d outside [0,100]", got.Score)
	}
}

func TestScore_DeductionsSortedMostSevereFirst(t *testing.T) {
	snap := goodSnapshot()
	snap.ToolStatus.UpdateStatus = collector.Fail("x") // -5
	snap.Host.Firewall.State = posture.StateOff        // -30
	snap.Host.AutoUpdates.State = posture.StateUnknown // -5

	got := Score(snap)
	for i := 1; i < len(got.Deductions); i++ {
		if got.Deductions[i-1].Points > got.Deductions[i].Points {
			t.Errorf("deductions not sorted ascending by points: %+v", got.Deductions)
		}
	}
	if got.Deductions[0].Points != -30 {
		t.Errorf("most severe deduction first: got %+v", got.Deductions[0])
	}
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		points int
		want   Severity
	}{
		{-30, SeverityHigh},
		{-25, SeverityHigh},
		{-20, SeverityMedium},
		{-10, SeverityMedium},
		{-5, SeverityLow},
	}
	for _, tt := range tests {
		if got := SeverityFor(tt.points); got != tt.want {
			t.Errorf("SeverityFor(%d) = %s, want %s", tt.points, got, tt.want)
		}
	}
}
