package maze

// Cell represents a single cell in a maze grid.
// IsVisited and IsPath are transient annotations owned by whichever solver is
// currently walking the grid; a freshly generated grid has both set to false.
type Cell struct {
	Row       int  `json:"row"`        // Row index of the cell
	Col       int  `json:"col"`        // Column index of the cell
	IsWall    bool `json:"is_wall"`    // IsWall indicates the cell is solid and cannot be entered.
	IsStart   bool `json:"is_start"`   // IsStart marks the unique entry cell.
	IsEnd     bool `json:"is_end"`     // IsEnd marks the unique goal cell.
	IsVisited bool `json:"is_visited"` // IsVisited marks cells a solver has expanded.
	IsPath    bool `json:"is_path"`    // IsPath marks cells on the solver's final path.
}

// CellPosition represents the position of a cell in the maze grid.
type CellPosition struct {
	Row int `json:"row"` // Row index of the cell
	Col int `json:"col"` // Column index of the cell
}

// Directions lists the four cardinal moves in canonical order:
// up, right, down, left.
var Directions = [4]CellPosition{
	{Row: -1, Col: 0},
	{Row: 0, Col: 1},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
}
