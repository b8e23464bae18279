package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/playperu/landmarks/internal/geo"
	"github.com/playperu/landmarks/internal/guess"
	"github.com/playperu/landmarks/internal/scoring"
	"github.com/playperu/landmarks/internal/session"
)

const help = `commands:
  precision <VAGUE|NARROW|EXACT>  pick the precision for the next guess
  guess <lat> <lng>               place your guess
  submit                          send the guess
  again                           start a new round once this one ended
  show                            print the current round
  quit                            leave (the round is saved)`

var errQuit = errors.New("quit")

type console struct {
	game  *session.Game
	tiers map[scoring.Precision]scoring.Tier
	out   io.Writer
}

// newConsole labels precisions with tiers, normally the table served by
// /api/precisions.
func newConsole(game *session.Game, tiers []scoring.Tier, out io.Writer) *console {
	byPrecision := make(map[scoring.Precision]scoring.Tier, len(tiers))
	for _, t := range tiers {
		byPrecision[t.Precision] = t
	}
	return &console{game: game, tiers: byPrecision, out: out}
}

func (c *console) loop(ctx context.Context, in io.Reader) error {
	c.show()
	fmt.Fprintln(c.out, help)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(c.out)
			return sc.Err()
		}
		err := c.exec(ctx, sc.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			// The round is untouched on failure; the player can retry.
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *console) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
	case "precision", "p":
		if len(args) != 1 {
			return errors.New("usage: precision <VAGUE|NARROW|EXACT>")
		}
		p, err := scoring.Parse(strings.ToUpper(args[0]))
		if err != nil {
			return err
		}
		if err := c.game.SelectPrecision(p); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "precision set to %s\n", p)

	case "guess", "g":
		if len(args) != 2 {
			return errors.New("usage: guess <lat> <lng>")
		}
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("lat: %w", err)
		}
		lng, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("lng: %w", err)
		}
		if err := c.game.SelectLocation(geo.Coordinate{Lng: lng, Lat: lat}); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "guess placed at %.4f, %.4f\n", lat, lng)

	case "submit", "s":
		res, err := c.game.Submit(ctx)
		if err != nil {
			return err
		}
		c.printResult(res)
		c.show()

	case "again", "a":
		if err := c.game.PlayAgain(ctx); err != nil {
			return err
		}
		c.show()

	case "show":
		c.show()

	case "help", "?":
		fmt.Fprintln(c.out, help)

	case "quit", "q", "exit":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

func (c *console) show() {
	r, ok := c.game.Round()
	if !ok {
		fmt.Fprintln(c.out, "no round loaded")
		return
	}

	fmt.Fprintf(c.out, "\n%s\n", r.Landmark.Name)
	for _, img := range r.Landmark.Images {
		fmt.Fprintf(c.out, "  %s\n", img)
	}

	if r.State == session.RoundEnded {
		fmt.Fprintln(c.out, "Round over. Type 'again' for a new landmark.")
		return
	}

	var tiers []string
	for _, p := range r.Available {
		mark := " "
		if p == r.Selected {
			mark = "*"
		}
		t := c.tiers[p]
		tiers = append(tiers, fmt.Sprintf("%s%s (%d pts, <%gkm)", mark, p, t.Points, t.RadiusKm))
	}
	fmt.Fprintf(c.out, "precision: %s\n", strings.Join(tiers, "  "))
	if r.Pending != nil {
		fmt.Fprintf(c.out, "guess: %.4f, %.4f\n", r.Pending.Lat, r.Pending.Lng)
	}
}

func (c *console) printResult(res guess.Result) {
	if res.IsCorrect {
		fmt.Fprintf(c.out, "Correct at %s! +%d points, %.1f km away.\n",
			*res.AchievedPrecision, c.tiers[*res.AchievedPrecision].Points, res.DistanceKm)
	} else {
		fmt.Fprintf(c.out, "Missed by %.1f km. It is at %.4f, %.4f.\n",
			res.DistanceKm, res.ActualLocation.Lat, res.ActualLocation.Lng)
	}
	if res.WikiSummary != "" {
		fmt.Fprintf(c.out, "\n%s\n%s\n", res.WikiSummary, res.WikiURL)
	}
	if res.HasRetry() {
		fmt.Fprintln(c.out, "Try again at a finer precision for more points.")
	}
}
