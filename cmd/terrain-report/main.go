package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/battlescape/internal/mission"
	"github.com/Garsondee/battlescape/internal/terrain"
)

// reachBudget is the time units a combatant has per turn.
const reachBudget = 24

type runStats struct {
	runIndex int
	seed     int64

	xcorp, aliens   int
	initialContacts int // X-Corp/alien pairs in sight straight after deployment
	revealed        int
	seenFraction    float64
	avgSightline    float64
	avgReach        float64

	routeCosts     []int // per X-Corp member, -1 when no route to any alien
	stepsToContact []int // per X-Corp member, -1 when the route ends without contact

	contactNew       int
	xcorpSpotted     int // contact_new recorded by X-Corp members
	contactLost      int
	firstContactTurn int
}

func main() {
	fs := mission.NewFlagSet("terrain-report")
	cfg, err := mission.LoadConfig(fs, os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
	log := cfg.Logger(zerolog.SyncWriter(os.Stderr))

	desc, err := mission.Load(cfg.Mission)
	if err != nil {
		log.Fatal().Err(err).Msg("load mission")
	}

	fmt.Printf("=== Terrain Report ===\n")
	fmt.Printf("mission=%s size=%dx%dx%d runs=%d seed_base=%d seed_step=%d vision=%.0f\n\n",
		desc.Name, desc.Width, desc.Levels, desc.Length, cfg.Runs, cfg.SeedBase, cfg.SeedStep, cfg.Vision.Range)

	all, err := runAll(desc, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("report")
	}
	for _, rs := range all {
		printRun(os.Stdout, rs)
	}
	printAggregate(os.Stdout, all)
}

// runAll runs every seed concurrently. Each run owns its terrain.
func runAll(desc *mission.Descriptor, cfg mission.Config, log zerolog.Logger) ([]runStats, error) {
	all := make([]runStats, cfg.Runs)
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := 0; i < cfg.Runs; i++ {
		seed := cfg.SeedBase + int64(i)*cfg.SeedStep
		g.Go(func() error {
			rs, err := runMission(i+1, seed, desc, cfg.Vision, log.With().Int("run", i+1).Logger())
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i+1, seed, err)
			}
			all[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

func runMission(runIndex int, seed int64, desc *mission.Descriptor, vision terrain.VisionConfig, log zerolog.Logger) (runStats, error) {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- reproducible runs
	journal := terrain.NewJournal()
	t, err := mission.Build(desc, rng, log, terrain.WithJournal(journal), terrain.WithVision(vision))
	if err != nil {
		return runStats{}, err
	}
	xcorp, aliens, err := mission.Deploy(t, desc)
	if err != nil {
		return runStats{}, err
	}

	rs := runStats{runIndex: runIndex, seed: seed, xcorp: len(xcorp.Members), aliens: len(aliens.Members)}
	updateAll(t, xcorp, aliens)
	for _, c := range xcorp.Members {
		rs.initialContacts += popcount(c.OpponentsInView)
	}

	var sightSum, reachSum float64
	for _, c := range xcorp.Members {
		rs.revealed += t.RevealFrom(c)
		sightSum += t.ScoreSightline(c.Cell())
		reachSum += float64(len(t.Reachable(c.Cell(), c.CanFly, reachBudget)) - 1)
	}
	if n := len(xcorp.Members); n > 0 {
		rs.avgSightline = sightSum / float64(n)
		rs.avgReach = reachSum / float64(n)
	}

	turn := 0
	for _, c := range xcorp.Members {
		route, cost, ok := routeToNearest(t, c, aliens.Members)
		if !ok {
			rs.routeCosts = append(rs.routeCosts, -1)
			rs.stepsToContact = append(rs.stepsToContact, -1)
			continue
		}
		rs.routeCosts = append(rs.routeCosts, cost)
		rs.stepsToContact = append(rs.stepsToContact, advance(t, c, route, aliens, &turn))
	}

	total := t.Width() * t.Levels() * t.Length()
	rs.seenFraction = float64(t.SeenCells()) / float64(total)
	rs.contactNew = journal.CountCategory("vision", "contact_new")
	rs.xcorpSpotted = journal.CountFaction(terrain.FactionXCorp, "vision", "contact_new")
	rs.contactLost = journal.CountCategory("vision", "contact_lost")
	rs.firstContactTurn = journal.FirstTurn("vision", "contact_new")
	log.Debug().Int("seen", t.SeenCells()).Int("contacts", rs.contactNew).Msg("run complete")
	return rs, nil
}

// updateAll refreshes sight between every X-Corp member and the aliens.
func updateAll(t *terrain.Terrain, xcorp, aliens *terrain.Team) {
	for _, c := range xcorp.Members {
		t.UpdateVisibility(c, aliens.Members)
	}
}

// routeToNearest finds the cheapest route from c to a free cell beside any
// alien.
func routeToNearest(t *terrain.Terrain, c *terrain.Combatant, aliens []*terrain.Combatant) ([]terrain.MoveData, int, bool) {
	var best []terrain.MoveData
	bestCost := math.MaxInt
	var around []terrain.MoveData
	for _, a := range aliens {
		if !t.OnTerrain(a) {
			continue
		}
		p := a.Cell()
		around = t.ListAccessibleNeighbours(p.X, p.Y, p.Z, a.CanFly, around[:0])
		for _, n := range around {
			route, cost, ok := t.FindRoute(c.Cell(), n.Point(), c.CanFly)
			if ok && cost < bestCost {
				best, bestCost = route, cost
			}
		}
	}
	if bestCost == math.MaxInt {
		return nil, 0, false
	}
	return best, bestCost, true
}

// advance walks c along route one step per turn until it spots an alien.
// It returns the number of steps taken, or -1 if the route ends unseen.
func advance(t *terrain.Terrain, c *terrain.Combatant, route []terrain.MoveData, aliens *terrain.Team, turn *int) int {
	if c.OpponentsInView != 0 {
		return 0
	}
	for i, step := range route {
		*turn++
		t.SetTurn(*turn)
		from, to := c.Cell(), step.Point()
		if t.IsOccupied(to.X, to.Y, to.Z) {
			return -1
		}
		c.Heading = terrain.HeadingTo(from.Centre(), to.Centre())
		t.MoveCombatant(c, from, to)
		t.UpdateVisibility(c, aliens.Members)
		t.RevealFrom(c)
		if c.OpponentsInView != 0 {
			return i + 1
		}
	}
	return -1
}

func popcount(mask uint32) int {
	n := 0
	for ; mask != 0; mask &= mask - 1 {
		n++
	}
	return n
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "deployed: xcorp=%d aliens=%d initial_contacts=%d\n", rs.xcorp, rs.aliens, rs.initialContacts)
	fmt.Fprintf(w, "fog: revealed=%d seen=%.1f%% sightline_avg=%.2f reach_avg=%.1f\n",
		rs.revealed, rs.seenFraction*100, rs.avgSightline, rs.avgReach)
	fmt.Fprintf(w, "advance: route_costs=%v steps_to_contact=%v\n", rs.routeCosts, rs.stepsToContact)
	fmt.Fprintf(w, "events: contact_new=%d (xcorp=%d) contact_lost=%d first_contact_turn=%d\n\n",
		rs.contactNew, rs.xcorpSpotted, rs.contactLost, rs.firstContactTurn)
}

func printAggregate(w io.Writer, all []runStats) {
	var contacts, contactNew, contactLost int
	var seen, sight, reach float64
	var costs, steps, firstTurns []int
	unroutable := 0
	for _, rs := range all {
		contacts += rs.initialContacts
		contactNew += rs.contactNew
		contactLost += rs.contactLost
		seen += rs.seenFraction
		sight += rs.avgSightline
		reach += rs.avgReach
		for i, c := range rs.routeCosts {
			if c < 0 {
				unroutable++
				continue
			}
			costs = append(costs, c)
			if rs.stepsToContact[i] >= 0 {
				steps = append(steps, rs.stepsToContact[i])
			}
		}
		if rs.firstContactTurn >= 0 {
			firstTurns = append(firstTurns, rs.firstContactTurn)
		}
	}

	n := len(all)
	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d\n", n)
	fmt.Fprintf(w, "avg_per_run: initial_contacts=%.1f contact_new=%.1f contact_lost=%.1f\n",
		avg(contacts, n), avg(contactNew, n), avg(contactLost, n))
	fmt.Fprintf(w, "avg_map: seen=%.1f%% sightline=%.2f reach=%.1f\n",
		fdiv(seen, n)*100, fdiv(sight, n), fdiv(reach, n))
	fmt.Fprintf(w, "advance: route_cost=%s steps_to_contact=%s unroutable=%d first_contact_turn=%s\n",
		avgIntString(costs), avgIntString(steps), unroutable, avgIntString(firstTurns))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func fdiv(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return sum / float64(n)
}

func avgIntString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
