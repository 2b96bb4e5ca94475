package calibrate_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bodycal/internal/calibrate"
	"github.com/san-kum/bodycal/internal/host"
)

const dt = 1.0 / 60

type fakeSubject struct {
	calls       []string
	settleAfter int
	settleCalls int
	refreshErr  error
	finishErr   error
	gravity     bool
	massPasses  int
	panicIn     string
}

func (f *fakeSubject) BeginRefresh(updateMass bool) error {
	f.calls = append(f.calls, "begin")
	if f.panicIn == "begin" {
		panic("rig vanished")
	}
	return f.refreshErr
}

func (f *fakeSubject) SetGravity(on bool) {
	f.gravity = on
	if on {
		f.calls = append(f.calls, "gravity-on")
	} else {
		f.calls = append(f.calls, "gravity-off")
	}
}

func (f *fakeSubject) RefreshMass(updateMass bool) error {
	f.massPasses++
	return nil
}

func (f *fakeSubject) Correct() { f.calls = append(f.calls, "correct") }

func (f *fakeSubject) Settled() bool {
	f.settleCalls++
	return f.settleAfter >= 0 && f.settleCalls > f.settleAfter
}

func (f *fakeSubject) CaptureNeutral() { f.calls = append(f.calls, "neutral") }

func (f *fakeSubject) FinishRefresh(err error) {
	f.finishErr = err
	f.calls = append(f.calls, "finish")
	if f.panicIn == "finish" {
		panic("host gone")
	}
}

// timedLock is held by a sibling until the shared clock reaches until.
type timedLock struct {
	clock    *float64
	until    float64
	err      error
	acquired bool
	released int
}

func (l *timedLock) HeldByOthers() (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return *l.clock < l.until, nil
}

func (l *timedLock) Acquire() { l.acquired = true }
func (l *timedLock) Release() { l.released++; l.acquired = false }

var _ = Describe("Orchestrator", func() {
	var (
		clock   float64
		subject *fakeSubject
		lock    *timedLock
		orch    *calibrate.Orchestrator
		reports []calibrate.Report
	)

	step := func() {
		clock += dt
		orch.Step(dt)
	}

	runUntilIdle := func() {
		for i := 0; i < 10000; i++ {
			step()
			if !orch.Busy() && !orch.Pending() {
				return
			}
		}
		Fail("calibration did not finish")
	}

	BeforeEach(func() {
		clock = 0
		subject = &fakeSubject{}
		lock = &timedLock{clock: &clock}
		orch = calibrate.New(subject, lock, calibrate.DefaultTimings(), nil)
		reports = nil
		orch.OnDone = func(r calibrate.Report) { reports = append(reports, r) }
	})

	It("runs every phase in order", func() {
		Expect(orch.Request(calibrate.Request{UpdateMass: true, Reason: "test"})).To(Succeed())
		runUntilIdle()

		Expect(subject.calls).To(Equal([]string{
			"begin", "gravity-off", "gravity-on", "correct", "neutral", "finish",
		}))
		Expect(subject.massPasses).To(Equal(5))
		Expect(subject.finishErr).NotTo(HaveOccurred())
		Expect(lock.released).To(Equal(1))
		Expect(lock.acquired).To(BeFalse())

		Expect(reports).To(HaveLen(1))
		Expect(reports[0].Err).NotTo(HaveOccurred())
		Expect(reports[0].TimedOut).To(BeFalse())
		Expect(reports[0].Request.UpdateMass).To(BeTrue())
		// zero-gravity settle plus four pass intervals
		Expect(reports[0].Duration).To(BeNumerically(">=", 0.7-1e-6))
	})

	It("visits the states in sequence", func() {
		orch.Request(calibrate.Request{})
		seen := []calibrate.State{}
		for i := 0; i < 1000 && (orch.Busy() || orch.Pending()); i++ {
			step()
			if n := len(seen); n == 0 || seen[n-1] != orch.State() {
				seen = append(seen, orch.State())
			}
		}
		Expect(seen).To(Equal([]calibrate.State{
			calibrate.PreRefreshStarted,
			calibrate.PreRefreshOk,
			calibrate.MassRefreshStarted,
			calibrate.MassRefreshOk,
			calibrate.NeutralPoseStarted,
			calibrate.NeutralPoseOk,
			calibrate.Done,
			calibrate.Idle,
		}))
	})

	Context("when a sibling holds the calibration lock", func() {
		BeforeEach(func() {
			lock.until = 0.5
		})

		It("waits until the lock clears before starting", func() {
			orch.Request(calibrate.Request{Reason: "sibling"})
			var startedAt float64
			for i := 0; i < 1000; i++ {
				step()
				if orch.State() != calibrate.Waiting {
					startedAt = clock
					break
				}
			}
			Expect(startedAt).To(BeNumerically(">=", 0.5))
			Expect(subject.calls).To(BeEmpty())
			Expect(lock.acquired).To(BeTrue())

			runUntilIdle()
			Expect(reports).To(HaveLen(1))
			Expect(reports[0].LockWait).To(BeNumerically(">=", 0.4))
		})

		It("polls at the configured interval", func() {
			orch.Request(calibrate.Request{})
			step()
			Expect(orch.State()).To(Equal(calibrate.Waiting))
			for i := 0; i < 3; i++ {
				step()
			}
			Expect(orch.State()).To(Equal(calibrate.Waiting))
		})
	})

	It("proceeds when the lock lookup fails", func() {
		lock.err = errors.New("sibling gone")
		orch.Request(calibrate.Request{})
		step()
		Expect(orch.State()).To(Equal(calibrate.PreRefreshStarted))
	})

	It("times out waiting for the neutral pose", func() {
		subject.settleAfter = -1
		orch.Request(calibrate.Request{})
		runUntilIdle()

		Expect(reports).To(HaveLen(1))
		Expect(reports[0].TimedOut).To(BeTrue())
		Expect(subject.calls).To(ContainElement("neutral"))
		Expect(reports[0].Duration).To(BeNumerically(">=", 2.0))
	})

	It("keeps at most one pending request", func() {
		Expect(orch.Request(calibrate.Request{Reason: "first"})).To(Succeed())
		step()
		Expect(orch.Busy()).To(BeTrue())

		Expect(orch.Request(calibrate.Request{Reason: "second"})).To(Succeed())
		err := orch.Request(calibrate.Request{Reason: "third", UpdateMass: true})
		Expect(err).To(MatchError(calibrate.ErrCalibrationInProgress))

		runUntilIdle()
		Expect(orch.Runs()).To(Equal(2))
		Expect(reports[1].Request.Reason).To(Equal("second"))
		Expect(reports[1].Request.UpdateMass).To(BeTrue())
	})

	It("releases the lock when a phase fails", func() {
		subject.refreshErr = errors.New("no rig")
		orch.Request(calibrate.Request{})
		runUntilIdle()

		Expect(reports).To(HaveLen(1))
		var perr *calibrate.PhaseError
		Expect(errors.As(reports[0].Err, &perr)).To(BeTrue())
		Expect(perr.State).To(Equal(calibrate.PreRefreshStarted))
		Expect(subject.finishErr).To(MatchError(ContainSubstring("no rig")))
		Expect(lock.released).To(Equal(1))
		Expect(subject.gravity).To(BeTrue())
	})

	It("releases the lock when a phase panics", func() {
		subject.panicIn = "begin"
		orch.Request(calibrate.Request{})
		Expect(func() { runUntilIdle() }).NotTo(Panic())

		Expect(orch.State()).To(Equal(calibrate.Idle))
		Expect(lock.acquired).To(BeFalse())
		Expect(lock.released).To(Equal(1))
		Expect(subject.gravity).To(BeTrue())

		Expect(reports).To(HaveLen(1))
		var perr *calibrate.PhaseError
		Expect(errors.As(reports[0].Err, &perr)).To(BeTrue())
		Expect(perr.State).To(Equal(calibrate.PreRefreshStarted))
		Expect(reports[0].Err).To(MatchError(ContainSubstring("rig vanished")))
	})

	It("ends the sequence when finishing panics", func() {
		subject.panicIn = "finish"
		orch.Request(calibrate.Request{})
		Expect(func() { runUntilIdle() }).NotTo(Panic())

		Expect(orch.Busy()).To(BeFalse())
		Expect(lock.acquired).To(BeFalse())
		Expect(lock.released).To(Equal(1))
		Expect(reports).To(HaveLen(1))
		Expect(reports[0].Err).To(MatchError(ContainSubstring("host gone")))

		subject.panicIn = ""
		Expect(orch.Request(calibrate.Request{Reason: "again"})).To(Succeed())
		runUntilIdle()
		Expect(reports).To(HaveLen(2))
		Expect(reports[1].Err).NotTo(HaveOccurred())
	})

	It("releases the lock on abort", func() {
		orch.Request(calibrate.Request{})
		for i := 0; i < 5; i++ {
			step()
		}
		Expect(orch.State()).To(Equal(calibrate.MassRefreshStarted))
		orch.Abort()
		Expect(orch.Busy()).To(BeFalse())
		Expect(lock.released).To(Equal(1))
		Expect(subject.gravity).To(BeTrue())
	})
})

type fakeScene struct {
	siblings []host.Sibling
}

func (s *fakeScene) Siblings(selfID string) []host.Sibling {
	var out []host.Sibling
	for _, sib := range s.siblings {
		if sib.ID() != selfID {
			out = append(out, sib)
		}
	}
	return out
}

type brokenSibling struct{}

func (brokenSibling) ID() string                          { return "broken" }
func (brokenSibling) BoolParam(name string) (bool, error) { return false, errors.New("unreachable") }

var _ = Describe("SceneLock", func() {
	It("sees siblings' locks but not its own", func() {
		scene := &fakeScene{}
		a := calibrate.NewSceneLock("a", scene, nil)
		b := calibrate.NewSceneLock("b", scene, nil)
		scene.siblings = []host.Sibling{a, b}

		a.Acquire()
		held, err := a.HeldByOthers()
		Expect(err).NotTo(HaveOccurred())
		Expect(held).To(BeFalse())

		held, err = b.HeldByOthers()
		Expect(err).NotTo(HaveOccurred())
		Expect(held).To(BeTrue())

		a.Release()
		held, _ = b.HeldByOthers()
		Expect(held).To(BeFalse())
	})

	It("fails open on unreadable siblings", func() {
		scene := &fakeScene{siblings: []host.Sibling{brokenSibling{}}}
		l := calibrate.NewSceneLock("self", scene, nil)
		held, err := l.HeldByOthers()
		Expect(held).To(BeFalse())
		Expect(err).To(HaveOccurred())
	})

	It("rejects unknown parameters", func() {
		l := calibrate.NewSceneLock("self", nil, nil)
		_, err := l.BoolParam("other")
		Expect(errors.Is(err, host.ErrUnknownParameter)).To(BeTrue())
	})
})
