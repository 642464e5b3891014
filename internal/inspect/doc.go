// Package inspect runs static checks over the site HTML files without a browser:
// white-on-white class combinations and duplicated menu links.
package inspect
