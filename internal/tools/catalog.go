package tools

import "github.com/lydakis/cadmcp/internal/wire"

// Limits applied before a command reaches the executor.
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 2000
	MinColorIndex        = 0
	MaxColorIndex        = 256
	MaxCoordinate        = 1e10

	DefaultLayer     = "0"
	DefaultColor     = int64(7)
	DefaultWallWidth = 200.0
	DefaultTolerance = 10.0
)

func nameParam(name, description string) Param {
	return Param{Name: name, Type: TypeString, Description: description, Required: true, MinLength: 1, MaxLength: MaxNameLength}
}

func coordParam(name, description string) Param {
	return Param{Name: name, Type: TypeNumber, Description: description, Required: true, Minimum: bound(-MaxCoordinate), Maximum: bound(MaxCoordinate)}
}

func colorParam(description string, def any) Param {
	return Param{Name: "color", Type: TypeInteger, Description: description, Required: def == nil, Default: def, Minimum: bound(MinColorIndex), Maximum: bound(MaxColorIndex)}
}

func layerParam(description string) Param {
	return Param{Name: "layer", Type: TypeString, Description: description, Default: DefaultLayer}
}

func layerFilterParam() Param {
	return Param{Name: "layer", Type: TypeString, Description: "Only consider lines on this layer. Omit to scan every layer."}
}

// catalogue is filled in init because record Validate methods read it.
var catalogue map[Command]Spec

func init() {
	catalogue = map[Command]Spec{
		CreateLayerCommand: {
			Command:     CreateLayerCommand,
			Title:       "Create layer",
			Description: "Create a new layer with the specified color (AutoCAD Color Index).",
			Params: []Param{
				nameParam("name", "Name of the new layer."),
				colorParam("AutoCAD Color Index of the layer (0-256).", DefaultColor),
			},
			bind: func(v values) Invocation {
				return CreateLayer{Name: v.str("name"), Color: v.integer("color")}
			},
		},
		DrawLineCommand: {
			Command:     DrawLineCommand,
			Title:       "Draw line",
			Description: "Draw a line segment.",
			Params: []Param{
				coordParam("start_x", "X coordinate of the start point."),
				coordParam("start_y", "Y coordinate of the start point."),
				coordParam("end_x", "X coordinate of the end point."),
				coordParam("end_y", "Y coordinate of the end point."),
				layerParam("Layer to draw on."),
			},
			bind: func(v values) Invocation {
				return DrawLine{
					StartX: v.num("start_x"), StartY: v.num("start_y"),
					EndX: v.num("end_x"), EndY: v.num("end_y"),
					Layer: v.str("layer"),
				}
			},
		},
		DrawWallCommand: {
			Command:     DrawWallCommand,
			Title:       "Draw wall",
			Description: "Draw an architectural wall as a pair of parallel lines.",
			Params: []Param{
				coordParam("start_x", "X coordinate of the wall centerline start."),
				coordParam("start_y", "Y coordinate of the wall centerline start."),
				coordParam("end_x", "X coordinate of the wall centerline end."),
				coordParam("end_y", "Y coordinate of the wall centerline end."),
				{Name: "width", Type: TypeNumber, Description: "Wall thickness in drawing units.", Default: DefaultWallWidth, Minimum: bound(0), ExclusiveMinimum: true, Maximum: bound(MaxCoordinate)},
			},
			bind: func(v values) Invocation {
				return DrawWall{
					StartX: v.num("start_x"), StartY: v.num("start_y"),
					EndX: v.num("end_x"), EndY: v.num("end_y"),
					Width: v.num("width"),
				}
			},
		},
		GetLayersCommand: {
			Command:     GetLayersCommand,
			Title:       "List layers",
			Description: "List all layers in the current drawing.",
			ReadOnly:    true,
			bind:        func(values) Invocation { return GetLayers{} },
		},
		FindOverlapsCommand: {
			Command:     FindOverlapsCommand,
			Title:       "Find overlapping lines",
			Description: "Find overlapping lines in the drawing, or on one layer.",
			Params:      []Param{layerFilterParam()},
			ReadOnly:    true,
			bind: func(v values) Invocation {
				return FindOverlaps{Layer: v.optStr("layer")}
			},
		},
		CleanOverlapsCommand: {
			Command:     CleanOverlapsCommand,
			Title:       "Clean overlapping lines",
			Description: "Delete the shorter segment of every overlapping line pair.",
			Params:      []Param{layerFilterParam()},
			Destructive: true,
			bind: func(v values) Invocation {
				return CleanOverlaps{Layer: v.optStr("layer")}
			},
		},
		ConnectLinesCommand: {
			Command:     ConnectLinesCommand,
			Title:       "Connect lines",
			Description: "Join line endpoints that lie within the tolerance of each other.",
			Params: []Param{
				layerFilterParam(),
				{Name: "tolerance", Type: TypeNumber, Description: "Maximum gap between endpoints to close, in drawing units.", Default: DefaultTolerance, Minimum: bound(0), Maximum: bound(MaxCoordinate)},
			},
			bind: func(v values) Invocation {
				return ConnectLines{Layer: v.optStr("layer"), Tolerance: v.num("tolerance")}
			},
		},
		GetBlocksInViewCommand: {
			Command:     GetBlocksInViewCommand,
			Title:       "List blocks in view",
			Description: "List the block references visible in the current view.",
			ReadOnly:    true,
			bind:        func(values) Invocation { return GetBlocksInView{} },
		},
		RenameBlockCommand: {
			Command:     RenameBlockCommand,
			Title:       "Rename block",
			Description: "Rename a block definition.",
			Params: []Param{
				nameParam("old_name", "Current block name."),
				nameParam("new_name", "New block name."),
			},
			bind: func(v values) Invocation {
				return RenameBlock{OldName: v.str("old_name"), NewName: v.str("new_name")}
			},
		},
		UpdateBlockDescriptionCommand: {
			Command:     UpdateBlockDescriptionCommand,
			Title:       "Update block description",
			Description: "Set the description of a block definition.",
			Params: []Param{
				nameParam("name", "Block name."),
				{Name: "description", Type: TypeString, Description: "New description text.", Required: true, MaxLength: MaxDescriptionLength},
			},
			bind: func(v values) Invocation {
				return UpdateBlockDescription{Name: v.str("name"), Description: v.str("description")}
			},
		},
		CreateNewDrawingCommand: {
			Command:     CreateNewDrawingCommand,
			Title:       "Create new drawing",
			Description: "Open a new, empty drawing and make it current.",
			bind:        func(values) Invocation { return CreateNewDrawing{} },
		},
		DrawCircleCommand: {
			Command:     DrawCircleCommand,
			Title:       "Draw circle",
			Description: "Draw a circle.",
			Params: []Param{
				coordParam("center_x", "X coordinate of the center."),
				coordParam("center_y", "Y coordinate of the center."),
				{Name: "radius", Type: TypeNumber, Description: "Circle radius in drawing units.", Required: true, Minimum: bound(0), ExclusiveMinimum: true, Maximum: bound(MaxCoordinate)},
				layerParam("Layer to draw on."),
			},
			bind: func(v values) Invocation {
				return DrawCircle{CenterX: v.num("center_x"), CenterY: v.num("center_y"), Radius: v.num("radius"), Layer: v.str("layer")}
			},
		},
		SetLayerColorCommand: {
			Command:     SetLayerColorCommand,
			Title:       "Set layer color",
			Description: "Change the color of an existing layer.",
			Params: []Param{
				nameParam("layer", "Layer to recolor."),
				colorParam("AutoCAD Color Index (0-256).", nil),
			},
			bind: func(v values) Invocation {
				return SetLayerColor{Layer: v.str("layer"), Color: v.integer("color")}
			},
		},
	}
}

// CreateLayer creates a layer.
type CreateLayer struct {
	Name  string
	Color int64
}

func (CreateLayer) Command() Command  { return CreateLayerCommand }
func (c CreateLayer) Validate() error { return checkArgs(c.Command(), c.Args()) }
func (c CreateLayer) Args() wire.Args {
	return wire.Args{"name": c.Name, "color": c.Color}
}

// DrawLine draws a line segment on a layer.
type DrawLine struct {
	StartX, StartY float64
	EndX, EndY     float64
	Layer          string
}

func (DrawLine) Command() Command  { return DrawLineCommand }
func (c DrawLine) Validate() error { return checkArgs(c.Command(), c.Args()) }
func (c DrawLine) Args() wire.Args {
	return wire.Args{"start_x": c.StartX, "start_y": c.StartY, "end_x": c.EndX, "end_y": c.EndY, "layer": c.Layer}
}

// DrawWall draws a double-line wall of the given width.
type DrawWall struct {
	StartX, StartY float64
	EndX, EndY     float64
	Width          float64
}

func (DrawWall) Command() Command  { return DrawWallCommand }
func (c DrawWall) Validate() error { return checkArgs(c.Command(), c.Args()) }
func (c DrawWall) Args() wire.Args {
	return wire.Args{"start_x": c.StartX, "start_y": c.StartY, "end_x": c.EndX, "end_y": c.EndY, "width": c.Width}
}

type GetLayers struct{}

func (GetLayers) Command() Command  { return GetLayersCommand }
func (c GetLayers) Validate() error { return checkArgs(c.Command(), c.Args()) }
func (GetLayers) Args() wire.Args   { return wire.Args{} }

// FindOverlaps reports overlapping lines. An absent Layer scans every
// layer; a present empty Layer is passed through as a filter.
type FindOverlaps struct {
	Layer Opt[string]
}

func (FindOverlaps) Command() Command  { return FindOverlapsCommand }
func (c FindOverlaps) Validate() error { return checkArgs(c.Command(), c.Args()) }
func (c FindOverlaps) Args() wire.Args { return layerFilterArgs(c.Layer) }

// CleanOverlaps deletes the shorter line of each overlapping pair.
type CleanOverlaps struct {
	Layer Opt[string]
}

func (CleanOverlaps) Command() Command  { return CleanOverlapsCommand }
func (c CleanOverlaps) Validate() error { return checkArgs(c.Command(), c.Args()) }
func (c CleanOverlaps) Args() wire.Args { return layerFilterArgs(c.Layer) }

// ConnectLines joins endpoints closer than Tolerance.
type ConnectLines struct {
	Layer     Opt[string]
	Tolerance float64
}

func (ConnectLines) Command() Command  { return ConnectLinesCommand }
func (c ConnectLines) Validate() error { return checkArgs(c.Command(), c.Args()) }
func (c ConnectLines) Args() wire.Args {
	args := layerFilterArgs(c.Layer)
	args["tolerance"] = c.Tolerance
	return args
}

type GetBlocksInView struct{}

func (GetBlocksInView) Command() Command  { return GetBlocksInViewCommand }
func (c GetBlocksInView) Validate() error { return checkArgs(c.Command(), c.Args()) }
func (GetBlocksInView) Args() wire.Args   { return wire.Args{} }

// RenameBlock renames a block definition.
type RenameBlock struct {
	OldName string
	NewName string
}

func (RenameBlock) Command() Command  { return RenameBlockCommand }
func (c RenameBlock) Validate() error { return checkArgs(c.Command(), c.Args()) }
func (c RenameBlock) Args() wire.Args {
	return wire.Args{"old_name": c.OldName, "new_name": c.NewName}
}

// UpdateBlockDescription sets a block definition's description.
type UpdateBlockDescription struct {
	Name        string
	Description string
}

func (UpdateBlockDescription) Command() Command  { return UpdateBlockDescriptionCommand }
func (c UpdateBlockDescription) Validate() error { return checkArgs(c.Command(), c.Args()) }
func (c UpdateBlockDescription) Args() wire.Args {
	return wire.Args{"name": c.Name, "description": c.Description}
}

type CreateNewDrawing struct{}

func (CreateNewDrawing) Command() Command  { return CreateNewDrawingCommand }
func (c CreateNewDrawing) Validate() error { return checkArgs(c.Command(), c.Args()) }
func (CreateNewDrawing) Args() wire.Args   { return wire.Args{} }

// DrawCircle draws a circle on a layer.
type DrawCircle struct {
	CenterX, CenterY float64
	Radius           float64
	Layer            string
}

func (DrawCircle) Command() Command  { return DrawCircleCommand }
func (c DrawCircle) Validate() error { return checkArgs(c.Command(), c.Args()) }
func (c DrawCircle) Args() wire.Args {
	return wire.Args{"center_x": c.CenterX, "center_y": c.CenterY, "radius": c.Radius, "layer": c.Layer}
}

// SetLayerColor recolors an existing layer.
type SetLayerColor struct {
	Layer string
	Color int64
}

func (SetLayerColor) Command() Command  { return SetLayerColorCommand }
func (c SetLayerColor) Validate() error { return checkArgs(c.Command(), c.Args()) }
func (c SetLayerColor) Args() wire.Args {
	return wire.Args{"layer": c.Layer, "color": c.Color}
}

func layerFilterArgs(layer Opt[string]) wire.Args {
	args := wire.Args{}
	if name, ok := layer.Get(); ok {
		args["layer"] = name
	}
	return args
}
