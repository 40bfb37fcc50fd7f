package generate

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
)

// DefaultTemplate is the instruction that is sent in front of every file.
var DefaultTemplate = strings.TrimSpace(heredoc.Doc(`
	Objective:
	Generate detailed and structured documentation for the following source code. The documentation should enhance code understanding and usability, targeting developers and end-users. It must include the following elements:

	Documentation Requirements:
	Function/Module Description
	Provide a detailed overview of the function or module, explaining its purpose, goals, and significance.
	Example:
	"[Function/Module Name] is designed to [achieve specific tasks or solve problems]. It simplifies [key processes] and aims to provide an efficient, reliable, and user-friendly solution for [target domain or audience]."

	Main Features
	Highlight the key features or capabilities:

	Core functionalities.
	Advanced or unique features.
	Benefits or enhancements over alternatives.
	Parameters
	List and describe all parameters:

	Name: Parameter name.
	Type: Data type.
	Purpose: What it does and why it's needed.
	Attributes (for classes)
	Document all class attributes:

	Name: Attribute name.
	Type: Data type.
	Purpose: Why it exists and how it is used.
	Methods (for classes)
	List and document each method, including:

	Purpose of the method.
	Parameters.
	Return type.
	Exceptions (if any).
	Returns
	Specify the return type and explain the value returned:

	What the return value represents.
	Why it's significant.
	Example Usage
	Provide clear and concise examples of how the function or class is used:

	Input format.
	Expected output.
	Use cases for practical scenarios.
	Inherited Members (for classes)
	Include any inherited attributes or methods:

	Explain how inherited components enhance functionality.
	List relevant parent classes.
	Side Effects
	Highlight any side effects of the code:

	Changes to external states (e.g., file systems, global variables).
	Impacts on performance or environment.
	Inline and Function Comments
	Ensure the code itself is well-documented with:

	Inline Comments: Explain complex logic, critical decisions, or non-obvious operations.
	Function Comments: At the start of each function, summarize its purpose, assumptions, and considerations.
	Class Documentation (if applicable)
	For any class, include:

	Purpose: What the class represents.
	Attributes: Detailed list of class variables.
	Methods: Overview of methods with brief descriptions.
	Usage Example: Show how to create and use the class.
	Guidelines for Generated Documentation:
	Follow the documentation conventions of the source language (for example PEP 257 for Python).
	Ensure clarity and readability.
	Include practical insights to assist users in leveraging the code effectively.
`))

// Prompt returns the request payload for a file: the template, an empty line,
// and the file content. The content is never truncated.
func Prompt(template, code string) string {
	return fmt.Sprintf("%s\n\n%s", template, code)
}
