// Package dist defines the value types shared by every stage of a trial:
// the sampling range, the parameters of a candidate Gaussian distribution,
// the pair of z-scores computed for a sample and the resulting label.
//
// All types are generic over Float so a run can be carried out in either
// 32-bit or 64-bit precision without duplicating the pipeline.
package dist
