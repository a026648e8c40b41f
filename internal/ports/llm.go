package ports

import "context"

// InterpretInput holds everything the LLM needs to generate an interpretation.
type InterpretInput struct {
	Question string
	// Cards are card names in draw order.
	Cards []string
}

// InterpretOutput is the interpretation returned by the LLM.
type InterpretOutput struct {
	Text  string
	Model string
}

// Interpreter generates a tarot interpretation via an LLM.
type Interpreter interface {
	Interpret(ctx context.Context, in InterpretInput) (InterpretOutput, error)
}

// InterpreterFunc adapts a plain function to Interpreter.
type InterpreterFunc func(ctx context.Context, in InterpretInput) (InterpretOutput, error)

func (f InterpreterFunc) Interpret(ctx context.Context, in InterpretInput) (InterpretOutput, error) {
	return f(ctx, in)
}
