/*
Copyright © 2025 the MediaProp authors.
This file is part of MediaProp.

MediaProp is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

MediaProp is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with MediaProp.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package mediaprop estimates physicochemical properties of aqueous
// chemical mixtures such as microbial growth media. Given a composition
// table (compound, concentration, unit; one list per medium) and a
// chemical reference table (molecular weights, acid dissociation
// constants, charge states), it computes the equilibrium pH, the ionic
// strength, and a total-dissolved-solids salinity estimate for each
// medium.
//
// The pH is the root of the solution charge balance, found by bisection
// over the interval [0, 14]. Non-ideality is handled with Davies-equation
// activity coefficients, which are coupled to the charge-balance solve
// through an outer fixed-point loop. Both loops have explicit tolerances
// and iteration caps (see SolverConfig); running out of budget is
// reported, never fatal.
package mediaprop

// Version gives the version number of this version of MediaProp.
const Version = "0.1.0"
