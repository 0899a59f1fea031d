// Package viz draws rig wireframes in the terminal.
//
// A [Wireframe] collects edges from one or more armatures; a [Camera]
// projects them orthographically for one of the [View] presets, and
// [Render3D] rasterizes them onto a braille [Canvas]:
//
//	wf := viz.NewWireframe()
//	wf.AddArmature(arm)
//	cam := viz.NewCamera()
//	cam.View = viz.Side
//	cam.Fit(wf)
//	c := viz.NewCanvas(80, 24)
//	viz.Render3D(c, wf, cam)
//	fmt.Print(c)
//
// The same projection feeds the SVG and raster exporters, colored by a [Theme].
package viz
