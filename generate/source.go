package generate

import "fmt"

// Inputs is a [Source] backed by in-memory files. Files are processed in slice
// order.
type Inputs []Input

// List returns the paths of the inputs.
func (in Inputs) List() []string {
	paths := make([]string, len(in))
	for i, input := range in {
		paths[i] = input.Path
	}
	return paths
}

// ReadText returns the code of the input with the given path.
func (in Inputs) ReadText(path string) (string, error) {
	for _, input := range in {
		if input.Path == path {
			return input.Code, nil
		}
	}
	return "", fmt.Errorf("no input for %q", path)
}
