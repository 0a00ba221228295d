// Package render holds the drawing rules shared by every host: which color a
// body gets, when a particle is linked to the attractor and how faint that
// link is, the eased repulsor ring, and the ambient drift field that stands
// in for the gravity view while it is stopped.
//
// Nothing here draws. Hosts turn the values into braille cells, raylib
// calls or SVG elements.
package render
