/*Package v3 implements a Matrix type representing a row-major 3D matrix (i.e. a Nx3 matrix).
The v3.Matrix is used to represent the cartesian coordinates of sets of atoms, and per-atom
gradients, in goqmmm. It is based on gonum's mat.Dense type, with some additional restrictions
because of the fixed number of columns.

*/
package v3
