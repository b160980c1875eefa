/*
Package grammar defines declarative grammar documents in the style of
Structure Synth: named rules with weighted variants whose steps transform the
current frame, place primitives and call further rules.

	name: spiral
	start: r1
	limits: {max_depth: 50}
	rules:
	  r1:
	    - steps:
	        - transform:
	            - translate: [0.9, 0, 0]
	            - rotate: {axis: z, degrees: 6}
	            - scale: 0.99
	          call: [r1]
	        - shape: {name: icosphere, params: {radius: 0.25}}

Any number in a transform may be jittered: {base: 0.7, rnd: 0.15} samples
0.7 plus a symmetric draw in [-0.15, 0.15] each time the step runs.

Documents are compiled into guarded, weighted productions by algorist.Session.
*/
package grammar
