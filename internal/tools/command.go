package tools

// Command names one operation of the executor's fixed catalogue.
type Command string

const (
	CreateLayerCommand            Command = "create_layer"
	DrawLineCommand               Command = "draw_line"
	DrawWallCommand               Command = "draw_wall"
	GetLayersCommand              Command = "get_layers"
	FindOverlapsCommand           Command = "find_overlaps"
	CleanOverlapsCommand          Command = "clean_overlaps"
	ConnectLinesCommand           Command = "connect_lines"
	GetBlocksInViewCommand        Command = "get_blocks_in_view"
	RenameBlockCommand            Command = "rename_block"
	UpdateBlockDescriptionCommand Command = "update_block_description"
	CreateNewDrawingCommand       Command = "create_new_drawing"
	DrawCircleCommand             Command = "draw_circle"
	SetLayerColorCommand          Command = "set_layer_color"
)

var commands = []Command{
	CreateLayerCommand,
	DrawLineCommand,
	DrawWallCommand,
	GetLayersCommand,
	FindOverlapsCommand,
	CleanOverlapsCommand,
	ConnectLinesCommand,
	GetBlocksInViewCommand,
	RenameBlockCommand,
	UpdateBlockDescriptionCommand,
	CreateNewDrawingCommand,
	DrawCircleCommand,
	SetLayerColorCommand,
}

// Commands returns every command in catalogue order.
func Commands() []Command {
	out := make([]Command, len(commands))
	copy(out, commands)
	return out
}

// Valid reports whether c is part of the catalogue.
func (c Command) Valid() bool {
	for _, known := range commands {
		if c == known {
			return true
		}
	}
	return false
}

func (c Command) String() string { return string(c) }
