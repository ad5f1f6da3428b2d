package jinx

// Example programs in jinx assembly, exercised end to end by the test
// suite and handy as repl fodder.

// ExampleHello prints a greeting.
const ExampleHello = `
; the classic
	push 'h'  putc
	push 'e'  putc
	push 'l'  putc
	push 'l'  putc
	push 'o'  putc
	push ','  putc
	push <SP> putc
	push 'w'  putc
	push 'o'  putc
	push 'r'  putc
	push 'l'  putc
	push 'd'  putc
	push <NL> putc
	halt
`

// ExampleCat echoes input to output, stopping at NUL or end of input. The
// end-of-input read costs one curse; that cursed zero is also what stops
// the loop.
const ExampleCat = `
loop:	getc            ; next code point onto stack 1, 0 once input runs dry
	jnp done        ; NUL or end of input ends the loop
	putc            ; echo it back out
	jmp loop
done:	halt
`

// ExampleCountdown counts down from 5. The decrement has to be built from
// the combining fold: sub/2 always uses the value popped from stack 1 as
// its left operand, so n-1 takes two folds (1-n, then 0-(1-n)) with the
// queue ferrying the result back to stack 1; a final add/2 retires the
// stale counter into the scratch on stack 2.
const ExampleCountdown = `
	push 5          ; the counter lives on stack 1
loop:	jnp done        ; stop once the counter is non-positive
	spread/3        ; copy the counter onto stacks 2 and 3
	putn/3          ; print the stack 3 copy
	push <SP>
	putc
	push 1
	sub/2           ; stack 2 gains 1-n
	push 0
	sub/2           ; stack 2 gains n-1
	enq/2           ; n-1 rides the queue
	add/2           ; retire the stale counter into stack 2's scratch
	deq             ; n-1 back onto stack 1
	jmp loop
done:	push <NL>
	putc
	halt
`
