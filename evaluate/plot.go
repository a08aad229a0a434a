package evaluate

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/arcspline/demoprep/dsops"
)

// Plot styling for the qualitative comparison: simulated grid rollouts are
// thin translucent blue, the demonstration is a thick black line, matched
// simulated demonstrations are dashed red, and the demonstration end state is
// a red marker.
var (
	simGridColor  = color.NRGBA{B: 255, A: 38}
	simDemosColor = color.NRGBA{R: 200, G: 30, B: 30, A: 255}
	demoColor     = color.NRGBA{A: 255}
	endColor      = color.NRGBA{R: 200, G: 30, B: 30, A: 255}
)

// plotNDMotion renders one panel per workspace dimension and writes the
// aligned column of panels as a single pdf.
func (e *Evaluator) plotNDMotion(results *SimulationResults, timeDemos, timeSims []float64, savePath string) error {
	n := e.DimWorkspace
	plots := make([][]*plot.Plot, n)

	for dim := 0; dim < n; dim++ {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("Joint %d", dim+1)
		p.X.Label.Text = "time [s]"
		p.Y.Label.Text = "angle [rad]"
		p.Add(plotter.NewGrid())

		if err := e.addSimulatedGrid(p, results, timeSims, dim); err != nil {
			return err
		}
		if err := e.addDemonstration(p, timeDemos, dim); err != nil {
			return err
		}
		if err := e.addSimulatedDemos(p, results, timeSims, dim); err != nil {
			return err
		}

		plots[dim] = []*plot.Plot{p}
	}

	img := vgpdf.New(10*vg.Inch, vg.Length(n)*4*vg.Inch)
	dc := draw.New(img)
	canvases := plot.Align(plots, draw.Tiles{
		Rows: n,
		Cols: 1,
		PadX: vg.Millimeter * 2,
		PadY: vg.Millimeter * 2,
	}, dc)
	for dim := range plots {
		plots[dim][0].Draw(canvases[dim][0])
	}

	f, err := os.Create(savePath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", savePath, err)
	}
	defer f.Close()
	if _, err := img.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", savePath, err)
	}
	return nil
}

// addSimulatedGrid draws every grid rollout of one dimension as a thin
// translucent line.
func (e *Evaluator) addSimulatedGrid(p *plot.Plot, results *SimulationResults, timeSims []float64, dim int) error {
	if len(results.VisitedStatesGrid) == 0 {
		return nil
	}
	for r := range results.VisitedStatesGrid[0] {
		xys := make(plotter.XYs, 0, len(timeSims))
		for s, t := range timeSims {
			state := dsops.DenormalizeState(results.VisitedStatesGrid[s][r], e.XMin, e.XMax)
			xys = append(xys, plotter.XY{X: t, Y: state[dim]})
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = simGridColor
		line.Width = vg.Points(1)
		p.Add(line)
	}
	return nil
}

// addDemonstration draws the held-out demonstration thick black, with its
// end state marked.
func (e *Evaluator) addDemonstration(p *plot.Plot, timeDemos []float64, dim int) error {
	demo := e.DemonstrationsEval[0][dim]
	xys := make(plotter.XYs, 0, len(demo))
	for s, v := range demo {
		if s >= len(timeDemos) {
			break
		}
		xys = append(xys, plotter.XY{X: timeDemos[s], Y: v})
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = demoColor
	line.Width = vg.Points(4)
	p.Add(line)

	end, err := plotter.NewScatter(plotter.XYs{xys[len(xys)-1]})
	if err != nil {
		return err
	}
	end.GlyphStyle.Color = endColor
	end.GlyphStyle.Radius = vg.Points(5)
	end.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(end)
	return nil
}

// addSimulatedDemos draws the rollouts matched to the demonstrations as
// dashed red lines.
func (e *Evaluator) addSimulatedDemos(p *plot.Plot, results *SimulationResults, timeSims []float64, dim int) error {
	if len(results.VisitedStatesDemos) == 0 {
		return nil
	}
	for r := range results.VisitedStatesDemos[0] {
		xys := make(plotter.XYs, 0, len(timeSims))
		for s, t := range timeSims {
			if s >= len(results.VisitedStatesDemos) {
				break
			}
			state := dsops.DenormalizeState(results.VisitedStatesDemos[s][r], e.XMin, e.XMax)
			xys = append(xys, plotter.XY{X: t, Y: state[dim]})
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = simDemosColor
		line.Width = vg.Points(2)
		line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		p.Add(line)
	}
	return nil
}
