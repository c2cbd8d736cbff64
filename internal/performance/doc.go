// Package performance collects external measurements for a page: Lighthouse
// scores from the PageSpeed Insights API and markup validity from the W3C
// Nu validator. Both calls degrade gracefully to documented fallback values
// so that a dead third-party API never fails a grading run.
package performance
