/*
Package jinx interprets a tiny stack-machine language built around three
ideas: exact rational arithmetic, a bank of parallel value stacks, and
errors as data.

# The machine

A program is a flat sequence of instructions, each carrying an opcode,
a span, and a magnitude. The span is how many stacks the instruction
addresses, counting up from stack 1; the magnitude is a literal value or a
jump target. Machine state is a lazily created bank of stacks (any positive
index, created empty on first touch), one shared FIFO queue, and a curse
counter.

Values are exact rationals, always in lowest terms; nothing in the machine
ever rounds. Two backends implement the arithmetic: Bounded keeps int64
numerator/denominator pairs and treats overflow as a fault, Big uses
math/big and cannot overflow.

# Curses

The machine never stops for a data-dependent error. Popping an empty
stack, dequeueing an empty queue, dividing by zero, printing a fraction as
a character, running out of input: each charges one curse, substitutes the
policy value 0, and execution continues. Programs observe their own curses
only through the values those faults leave behind; hosts read the final
count from the run's Result.

Exactly one condition is fatal: a jump instruction whose target lies
outside the program. That aborts the run with a JumpError, because a bad
target means the program is malformed rather than merely unlucky.
Walking off the end of the program, by contrast, is the normal way to
finish.

# Use

	vm := jinx.New(
		jinx.WithInput(os.Stdin),
		jinx.WithOutput(os.Stdout),
	)
	prog, err := jinx.AssembleString("hello", jinx.ExampleHello)
	if err != nil {
		log.Fatal(err)
	}
	res, err := vm.Run(context.Background(), prog)

Run always starts from fresh machine state; Resume carries stacks, queue,
and curses over from the previous run, which is what an interactive
session wants. Programs come from the assembler (Assemble, AssembleString)
or from a serialized image (ReadImage, WriteImage), or can be built
directly as []Instruction by any external decoder.
*/
package jinx
