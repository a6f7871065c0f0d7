package embedded

import (
	_ "embed"
)

// Genre parameter table, one JSON object per genre
//
//go:embed data/genres.json
var GenresJSON []byte

// Suggestion prompt sections
//
//go:embed data/core_data/system_prompt.txt
var SystemPromptTxt []byte

//go:embed data/core_data/output_format_instructions.txt
var OutputFormatInstructionsTxt []byte
