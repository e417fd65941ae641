package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lrucache/internal/cache"
)

// ErrScenarioFailed is returned when a demo scenario observes an unexpected result.
var ErrScenarioFailed = errors.New("scenario failed")

type demoStep struct {
	put   bool // false means get
	key   int
	value int // value to put, or value expected from get
	hit   bool
}

func put(k, v int) demoStep { return demoStep{put: true, key: k, value: v} }
func hit(k, v int) demoStep { return demoStep{key: k, value: v, hit: true} }
func miss(k int) demoStep { return demoStep{key: k} }

type demoScenario struct {
	name     string
	capacity int
	steps    []demoStep
}

var promoteSteps = []demoStep{
	put(1, 1), put(2, 2), hit(1, 1),
	put(3, 3), // evicts 2
	miss(2),
}

var demoScenarios = []demoScenario{
	{
		name:     "get-promotes",
		capacity: 2,
		steps:    promoteSteps,
	},
	{
		name:     "evict-after-promote",
		capacity: 2,
		steps: append(append([]demoStep{}, promoteSteps...),
			put(4, 4), // evicts 1
			miss(1), hit(3, 3), hit(4, 4),
		),
	},
	{
		name:     "capacity-one",
		capacity: 1,
		steps:    []demoStep{put(1, 1), put(2, 2), miss(1), hit(2, 2)},
	},
	{
		name:     "overwrite",
		capacity: 2,
		steps:    []demoStep{put(1, 1), put(1, 2), hit(1, 2)},
	},
}

// NewDemoCmd creates the demo command.
func NewDemoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the reference LRU scenarios",
		Long: `Run the reference LRU scenarios and check every result.

Each scenario builds its own cache with a fixed capacity, so --capacity does
not apply here. Run with --log-level=debug to see evictions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, sc := range demoScenarios {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				if err := runScenario(app, sc); err != nil {
					fmt.Fprintf(out, "FAIL %s\n", sc.name)
					return err
				}
				fmt.Fprintf(out, "ok   %s\n", sc.name)
			}
			return app.logMetrics()
		},
	}
}

func runScenario(app *App, sc demoScenario) error {
	logger := app.Logger.With().Str("scenario", sc.name).Logger()

	c, err := cache.New(sc.capacity, evictionLogger[int, int](logger, nil))
	if err != nil {
		return err
	}
	if err := app.register(sc.name, c); err != nil {
		return err
	}

	for i, st := range sc.steps {
		if st.put {
			c.Put(st.key, st.value)
			logger.Info().Int("key", st.key).Int("value", st.value).Ints("keys", c.Keys()).Msg("put")
			continue
		}

		v, ok := c.Get(st.key)
		logger.Info().Int("key", st.key).Bool("found", ok).Int("value", v).Ints("keys", c.Keys()).Msg("get")
		if ok != st.hit || (ok && v != st.value) {
			return fmt.Errorf("%w: %s step %d: get(%d) = (%d, %t), want (%d, %t)",
				ErrScenarioFailed, sc.name, i+1, st.key, v, ok, st.value, st.hit)
		}
	}

	if c.Len() > sc.capacity {
		return fmt.Errorf("%w: %s: %d entries exceed capacity %d", ErrScenarioFailed, sc.name, c.Len(), sc.capacity)
	}
	return nil
}
