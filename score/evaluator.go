package score

import (
	"fmt"
	"math/rand"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/sirupsen/logrus"
	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/robmorgan/cadence/asset"
	"github.com/robmorgan/cadence/logger"
)

const evaluatorKey = "cadence.evaluator"

// Scores are written as straight-line programs with loops at the top level.
var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// Evaluator runs score scripts and turns them into songs. Randomness in a score is drawn from a generator seeded
// with the evaluator's seed, so evaluating the same score twice yields the same song.
type Evaluator struct {
	loader asset.Loader
	seed   int64
	log    *logrus.Entry

	// State of the evaluation in progress.
	rng     *rand.Rand
	group   uint32
	hostErr *ScriptError
	modules map[string]*module

	// threads holds the file being executed on top, beneath the files that loaded it.
	threads []*starlark.Thread
}

type module struct {
	globals starlark.StringDict
	err     error
}

// NewEvaluator creates an evaluator that reads scores and MIDI files through loader.
func NewEvaluator(loader asset.Loader, seed int64) *Evaluator {
	return &Evaluator{
		loader: loader,
		seed:   seed,
		log:    logger.GetProjectLogger().WithField("component", "score"),
	}
}

// Load evaluates the named score with a fresh evaluator.
func Load(loader asset.Loader, name string, seed int64) (*SongMap, error) {
	return NewEvaluator(loader, seed).EvalFile(name)
}

// EvalFile reads the named score through the loader and evaluates it.
func (ev *Evaluator) EvalFile(name string) (*SongMap, error) {
	src, err := ev.loader.Open(name)
	if err != nil {
		return nil, errors.WithStackTrace(ScriptError{Key: "score", Msg: err.Error(), Cause: errors.Unwrap(err)})
	}
	return ev.Eval(name, src)
}

// Eval runs src and converts its song global into a validated SongMap.
func (ev *Evaluator) Eval(filename string, src []byte) (*SongMap, error) {
	ev.rng = rand.New(rand.NewSource(ev.seed))
	ev.group = 0
	ev.hostErr = nil
	ev.modules = map[string]*module{}

	globals, err := ev.exec(filename, src)
	if err != nil {
		return nil, errors.WithStackTrace(ev.scriptError(err))
	}
	if ev.hostErr != nil {
		return nil, errors.WithStackTrace(*ev.hostErr)
	}

	song, err := songFrom(ev, globals)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	if err := song.Validate(); err != nil {
		return nil, err
	}

	ev.log.WithFields(logrus.Fields{
		"path":    filename,
		"bpm":     song.BPM,
		"skip":    float64(song.Skip),
		"actions": len(song.Actions),
	}).Info("loaded score")
	return song, nil
}

func (ev *Evaluator) exec(name string, src []byte) (starlark.StringDict, error) {
	thread := ev.thread(name)
	ev.threads = append(ev.threads, thread)
	defer func() { ev.threads = ev.threads[:len(ev.threads)-1] }()
	return starlark.ExecFileOptions(fileOptions, thread, name, src, predeclared())
}

// position is where the running script currently is, for failures raised outside a builtin call.
func (ev *Evaluator) position() string {
	if len(ev.threads) == 0 {
		return ""
	}
	thread := ev.threads[len(ev.threads)-1]
	if thread.CallStackDepth() == 0 {
		return ""
	}
	return thread.CallFrame(0).Pos.String()
}

func (ev *Evaluator) thread(name string) *starlark.Thread {
	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			ev.log.WithField("script", name).Info(msg)
		},
		Load: ev.load,
	}
	thread.SetLocal(evaluatorKey, ev)
	return thread
}

// load executes another score file so its globals can be shared. Each file is executed once per evaluation.
func (ev *Evaluator) load(_ *starlark.Thread, name string) (starlark.StringDict, error) {
	if m, ok := ev.modules[name]; ok {
		if m == nil {
			return nil, fmt.Errorf("cycle in load graph at %s", name)
		}
		return m.globals, m.err
	}
	ev.modules[name] = nil
	src, err := ev.loader.Open(name)
	if err != nil {
		ev.modules[name] = &module{err: err}
		return nil, err
	}
	globals, err := ev.exec(name, src)
	ev.modules[name] = &module{globals: globals, err: err}
	return globals, err
}

// fail records a host-side failure so the evaluation reports it with its original kind. The returned error aborts
// the script.
func (ev *Evaluator) fail(key string, err error) error {
	return ev.failAt("", key, err)
}

// failAt is fail with a known script position.
func (ev *Evaluator) failAt(pos, key string, err error) error {
	se, ok := errors.Unwrap(err).(ScriptError)
	if !ok {
		se = ScriptError{Key: key, Msg: err.Error(), Cause: errors.Unwrap(err)}
	}
	if se.Pos == "" {
		se.Pos = pos
	}
	if ev.hostErr == nil {
		ev.hostErr = &se
	}
	return fmt.Errorf("%s: %s", key, se.Msg)
}

// scriptError converts an error from the interpreter, attaching the script position of the failure.
func (ev *Evaluator) scriptError(err error) ScriptError {
	se := ScriptError{Msg: err.Error()}
	if ev.hostErr != nil {
		se = *ev.hostErr
	}
	switch e := err.(type) {
	case *starlark.EvalError:
		se.Backtrace = e.Backtrace()
		for i := len(e.CallStack) - 1; i >= 0; i-- {
			if pos := e.CallStack[i].Pos; pos.Filename() != "<builtin>" {
				se.Pos = pos.String()
				break
			}
		}
		if ev.hostErr == nil {
			se.Msg = e.Msg
		}
	case syntax.Error:
		se.Pos, se.Msg = e.Pos.String(), e.Msg
	case *syntax.Error:
		se.Pos, se.Msg = e.Pos.String(), e.Msg
	case resolve.ErrorList:
		if len(e) > 0 {
			se.Pos, se.Msg = e[0].Pos.String(), e[0].Msg
		}
	}
	return se
}

func evaluatorFrom(thread *starlark.Thread) *Evaluator {
	return thread.Local(evaluatorKey).(*Evaluator)
}
